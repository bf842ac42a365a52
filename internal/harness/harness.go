package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type Scorer interface {
	Score(ctx context.Context) (int, error)
}

// CommandScorer runs an external scoring binary that prints one integer.
type CommandScorer struct {
	Command string
	Args    []string
	Env     map[string]string
}

func (s *CommandScorer) Score(ctx context.Context) (int, error) {
	var cmd = exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Env = os.Environ()
	var keys = make([]string, 0, len(s.Env))
	for key := range s.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cmd.Env = append(cmd.Env, strings.ToUpper(key)+"="+s.Env[key])
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("run %v: %w: %s", s.Command, err, strings.TrimSpace(stderr.String()))
	}
	score, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("parse %v output: %w", s.Command, err)
	}
	return score, nil
}

type Runner struct {
	TrainingLog string
	TestingLog  string
	EvalTarget  string
	Scorer      Scorer
	Logger      *zap.SugaredLogger
}

// Run scores every trained network not present in the testing log yet.
func (r *Runner) Run(ctx context.Context) error {
	lastIteration, err := LastIteration(r.TestingLog)
	if err != nil {
		return err
	}
	var startIteration = lastIteration + 1
	r.Logger.Infow("starting", "iteration", startIteration)

	trainingLog, err := os.Open(r.TrainingLog)
	if err != nil {
		return err
	}
	defer trainingLog.Close()

	testingLog, err := os.OpenFile(r.TestingLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer testingLog.Close()

	var tested int
	err = WalkTrainingLog(trainingLog, func(row TrainingRow) error {
		if row.Iteration < startIteration {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Logger.Infow("testing", "eval", row.EvalFile)
		if err := copyFile(row.EvalFile, r.EvalTarget); err != nil {
			return err
		}
		score, err := r.Scorer.Score(ctx)
		if err != nil {
			return err
		}
		var csvRow = fmt.Sprintf("%v, %v, %v", row.Iteration, row.Time, score)
		r.Logger.Infow("tested", "row", csvRow)
		if _, err := fmt.Fprintln(testingLog, csvRow); err != nil {
			return err
		}
		tested++
		return testingLog.Sync()
	})
	r.Logger.Infow("finished", "tested", tested)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
