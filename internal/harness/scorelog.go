package harness

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TrainingRow is a line of the training log: "iteration evalFile time".
type TrainingRow struct {
	Iteration int
	EvalFile  string
	Time      string
}

// TestingRow is a line of the testing log: "iteration, time, score".
// Old logs have no iteration column, HasIteration is false for them.
type TestingRow struct {
	Iteration    int
	HasIteration bool
	Time         float64
	Score        float64
}

func (r TestingRow) String() string {
	if !r.HasIteration {
		return fmt.Sprintf("%v, %v", r.Time, r.Score)
	}
	return fmt.Sprintf("%v, %v, %v", r.Iteration, r.Time, r.Score)
}

var errRowFormat = errors.New("unexpected row format")

func ParseTrainingRow(line string) (TrainingRow, error) {
	var fields = strings.Fields(line)
	if len(fields) < 3 {
		return TrainingRow{}, fmt.Errorf("%w: %q", errRowFormat, line)
	}
	iteration, err := strconv.Atoi(fields[0])
	if err != nil {
		return TrainingRow{}, fmt.Errorf("parse iteration %q: %w", line, err)
	}
	return TrainingRow{
		Iteration: iteration,
		EvalFile:  fields[1],
		Time:      fields[2],
	}, nil
}

func ParseTestingRow(line string) (TestingRow, error) {
	var fields = strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var row TestingRow
	var err error
	switch len(fields) {
	case 3:
		row.Iteration, err = strconv.Atoi(fields[0])
		if err != nil {
			return TestingRow{}, fmt.Errorf("parse iteration %q: %w", line, err)
		}
		row.HasIteration = true
		fields = fields[1:]
	case 2:
	default:
		return TestingRow{}, fmt.Errorf("%w: %q", errRowFormat, line)
	}

	row.Time, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return TestingRow{}, fmt.Errorf("parse time %q: %w", line, err)
	}
	row.Score, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return TestingRow{}, fmt.Errorf("parse score %q: %w", line, err)
	}
	return row, nil
}

func WalkTrainingLog(r io.Reader, onRow func(TrainingRow) error) error {
	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var line = scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParseTrainingRow(line)
		if err != nil {
			return err
		}
		if err = onRow(row); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func ReadTestingLog(r io.Reader) ([]TestingRow, error) {
	var result []TestingRow
	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var line = scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParseTestingRow(line)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, scanner.Err()
}

// LastIteration returns the iteration of the last testing log row,
// 0 when the log does not exist yet.
func LastIteration(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer file.Close()

	rows, err := ReadTestingLog(file)
	if err != nil {
		return 0, err
	}
	var last = 0
	for _, row := range rows {
		if row.HasIteration {
			last = row.Iteration
		}
	}
	return last, nil
}
