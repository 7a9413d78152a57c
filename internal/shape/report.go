package shape

import (
	"fmt"
	"io"
	"strings"
)

const reportSeparator = "-------------------------------------------------"

// FormatReport renders one report section for a named image.
//
// Centroid and angle use display coordinates (see FeatureSet.Display).
func FormatReport(name string, fs *FeatureSet) string {
	d := fs.Display()

	var b strings.Builder
	fmt.Fprintf(&b, "For the image: %s\n\n", name)
	fmt.Fprintf(&b, "Area is: %d\n", fs.Area)
	fmt.Fprintf(&b, "Centroid is: x= %g and y= %g\n", d.X, d.Y)
	fmt.Fprintf(&b, "Perimeter is: %g\n", fs.Perimeter)
	fmt.Fprintf(&b, "Axis of Least Inertia:\n")
	fmt.Fprintf(&b, "\t\talpha = %g in degrees\n", d.AngleDegrees)
	fmt.Fprintf(&b, "\t\t x of centroid = %g and y of centroid = %g\n", d.X, d.Y)
	if fs.Components > 1 {
		fmt.Fprintf(&b, "Note: %d regions found, perimeter covers the first only\n", fs.Components)
	}
	b.WriteString(reportSeparator + "\n")
	return b.String()
}

// WriteReport writes a section per batch result. Failed images get a short
// error section instead of features.
func WriteReport(w io.Writer, results []BatchResult) error {
	for _, r := range results {
		var section string
		if r.Err != nil {
			section = fmt.Sprintf("For the image: %s\n\nError: %v\n%s\n", r.Name, r.Err, reportSeparator)
		} else {
			section = FormatReport(r.Name, r.Features)
		}
		if _, err := io.WriteString(w, section); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
