package collector

import (
	"fmt"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
)

// Report writes the console line for outcome to w:
//
//	The specified bucket '<b>' does not exist.
//	Downloaded files from '<b>': [k1 k2 ...]
//	No files to download from '<b>'.
//
// A failed outcome prints the same line as an empty one.
func Report(w io.Writer, outcome *collectortypes.Outcome) error {
	if outcome == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w, outcome.Message()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
