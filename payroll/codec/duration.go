package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ISO-8601 DURATIONS - The persisted form for worked time and rate periods
// =============================================================================

// durationPattern accepts the PnDTnHnMnS shape, with a fractional seconds
// component. At least one component must be present after the P.
var durationPattern = regexp.MustCompile(
	`^(-)?P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d{1,9})?)S)?)?$`)

// EncodeDuration renders a duration in ISO-8601 form, e.g. "PT2H30M".
// Zero is "PT0S". Hours are not carried into days, matching the form the
// stored files have always used.
func EncodeDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteString("PT")

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	nanos := d % time.Second

	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 || nanos > 0 || (hours == 0 && minutes == 0) {
		if nanos == 0 {
			fmt.Fprintf(&b, "%dS", seconds)
		} else {
			frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
			fmt.Fprintf(&b, "%d.%sS", seconds, frac)
		}
	}
	return b.String()
}

// DecodeDuration parses an ISO-8601 duration string. Malformed input fails
// with ErrInvalidDocument.
func DecodeDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "") {
		return 0, fmt.Errorf("%w: duration %q", ErrInvalidDocument, s)
	}

	var d time.Duration
	if m[2] != "" {
		days, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q", ErrInvalidDocument, s)
		}
		d += time.Duration(days) * 24 * time.Hour
	}
	if m[3] != "" {
		hours, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q", ErrInvalidDocument, s)
		}
		d += time.Duration(hours) * time.Hour
	}
	if m[4] != "" {
		minutes, err := strconv.ParseInt(m[4], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q", ErrInvalidDocument, s)
		}
		d += time.Duration(minutes) * time.Minute
	}
	if m[5] != "" {
		d += parseSeconds(m[5])
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// parseSeconds handles the fractional seconds component, e.g. "1.5".
// The pattern guarantees at most nine fractional digits.
func parseSeconds(s string) time.Duration {
	whole, frac, _ := strings.Cut(s, ".")
	secs, _ := strconv.ParseInt(whole, 10, 64)
	d := time.Duration(secs) * time.Second
	if frac != "" {
		nanos, _ := strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		d += time.Duration(nanos)
	}
	return d
}
