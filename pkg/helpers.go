package pkg

import (
	"fmt"
	"path/filepath"
)

// PreprocessedFiles returns the alphabetical and by-count output paths for one variant,
// named {alpha|count}_{variant}_preprocessed_{name}.txt.
func PreprocessedFiles(outputDir, name string, variant Variant) (alpha, count string) {
	alpha = filepath.Join(outputDir, fmt.Sprintf("alpha_%s_preprocessed_%s.txt", variant, name))
	count = filepath.Join(outputDir, fmt.Sprintf("count_%s_preprocessed_%s.txt", variant, name))
	return alpha, count
}

func SummaryLine(vocabulary int) string {
	return fmt.Sprintf("%d %s", vocabulary, WordsSuffix)
}
