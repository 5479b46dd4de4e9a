package zipf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/amankumarsingh77/wordfreq/pkg"
)

// Point is one observation; Rank is the 1-based position of its line in the count file.
type Point struct {
	Rank      float64
	Frequency float64
}

func ReadPoints(path string) ([]Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	points, err := ParsePoints(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return points, nil
}

// ParsePoints reads "<frequency>, <word>" lines, skipping blank lines and the dashed
// summary. Any other line that splits into exactly two comma fields is a data line.
func ParsePoints(r io.Reader) ([]Point, error) {
	var points []Point
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, pkg.SummaryPrefix) {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			continue
		}
		frequency, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid frequency %q: %w", lineNo, parts[0], err)
		}
		points = append(points, Point{
			Rank:      float64(len(points) + 1),
			Frequency: float64(frequency),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return points, nil
}
