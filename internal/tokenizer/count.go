package tokenizer

import (
	"errors"

	"github.com/temirov/foldertree/internal/types"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountReport counts the tokens of a rendered report and records them on summary.
func CountReport(counter Counter, report string, summary *types.TreeSummary) error {
	if counter == nil {
		return errNilCounter
	}
	tokens, countError := counter.CountString(report)
	if countError != nil {
		return countError
	}
	if summary != nil {
		summary.Tokens = tokens
		summary.Model = counter.Name()
	}
	return nil
}
