package presenters

import (
	"fixtrack/domain/staff"
)

// StaffView represents a staff member for API responses. The password
// never leaves the server.
type StaffView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// StaffPresenter transforms staff domain data into view models.
type StaffPresenter struct{}

// NewStaffPresenter creates a new staff presenter.
func NewStaffPresenter() *StaffPresenter {
	return &StaffPresenter{}
}

// FormatStaff converts a staff member to its API view model.
func (p *StaffPresenter) FormatStaff(member *staff.Staff) *StaffView {
	if member == nil {
		return nil
	}
	return &StaffView{
		ID:       member.ID,
		Name:     member.Name,
		Username: member.Username,
		Role:     string(member.Role),
	}
}

// FormatStaffList converts a slice of staff members to view models.
func (p *StaffPresenter) FormatStaffList(members []*staff.Staff) []*StaffView {
	views := make([]*StaffView, 0, len(members))
	for _, member := range members {
		if view := p.FormatStaff(member); view != nil {
			views = append(views, view)
		}
	}
	return views
}
