// Package util provides naming helpers shared by the generator and the CLI.
package util

import (
	"fmt"
	"strconv"
)

// DataExt is the extension of every dataset file.
const DataExt = ".data"

// CompactCount renders a body count with a k/M/B suffix when it is an exact
// multiple of a thousand, million or billion. The largest unit is tried first.
func CompactCount(n int64) string {
	switch {
	case n%1_000_000_000 == 0:
		return strconv.FormatInt(n/1_000_000_000, 10) + "B"
	case n%1_000_000 == 0:
		return strconv.FormatInt(n/1_000_000, 10) + "M"
	case n%1_000 == 0:
		return strconv.FormatInt(n/1_000, 10) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// DatasetFileName builds "<scenario>_<compact count>.data", with ".gz"
// appended for compressed output.
func DatasetFileName(scenario string, count int64, compressed bool) string {
	name := fmt.Sprintf("%s_%s%s", scenario, CompactCount(count), DataExt)
	if compressed {
		name += ".gz"
	}
	return name
}
