package repair

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultJobPrefix is the sheet number prefix used when none is configured.
const DefaultJobPrefix = "FTT"

// NextJobSheetNumber returns the next sheet number as PREFIX-NNNNN:
// the maximum valid numeric suffix among existing numbers plus one,
// zero-padded to five digits. An empty set yields PREFIX-00001.
//
// Malformed entries (missing delimiter, non-numeric suffix) are
// skipped rather than treated as zero so a corrupted row cannot pull
// the counter backwards.
//
// Two staff members minting concurrently can still race to the same
// number; the store interface exposes the full number set so a future
// atomic allocator can take over without changing callers.
func NextJobSheetNumber(existing []string, prefix string) string {
	if prefix == "" {
		prefix = DefaultJobPrefix
	}

	max := int64(0)
	for _, number := range existing {
		suffix, ok := parseSequenceSuffix(number)
		if !ok {
			continue
		}
		if suffix > max {
			max = suffix
		}
	}

	return fmt.Sprintf("%s-%05d", prefix, max+1)
}

// parseSequenceSuffix extracts the numeric suffix from a PREFIX-NNNNN
// sheet number. The second return is false for malformed numbers.
func parseSequenceSuffix(number string) (int64, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	suffix, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil || suffix < 0 {
		return 0, false
	}
	return suffix, true
}
