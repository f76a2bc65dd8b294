package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/foldertree/internal/services/clipboard"
)

const (
	reportFilePermissions = 0o644

	stdoutSinkName    = "stdout"
	clipboardSinkName = "clipboard"

	errorSinkFormat = "writing report to %s: %w"
)

// Sink receives a fully rendered report.
type Sink interface {
	Name() string
	Write(report string) error
}

// WriterSink prints the report followed by a newline.
type WriterSink struct {
	Writer io.Writer
	Label  string
}

// NewStdoutSink returns a WriterSink bound to standard output.
func NewStdoutSink(writer io.Writer) WriterSink {
	return WriterSink{Writer: writer, Label: stdoutSinkName}
}

func (sink WriterSink) Name() string {
	return sink.Label
}

func (sink WriterSink) Write(report string) error {
	_, writeError := fmt.Fprintln(sink.Writer, report)
	return writeError
}

// FileSink writes the report verbatim to Path, replacing any existing file.
type FileSink struct {
	Path string
}

func (sink FileSink) Name() string {
	return sink.Path
}

func (sink FileSink) Write(report string) error {
	return os.WriteFile(sink.Path, []byte(report), reportFilePermissions)
}

// ClipboardSink copies the report to the system clipboard.
type ClipboardSink struct {
	Copier clipboard.Copier
}

func (sink ClipboardSink) Name() string {
	return clipboardSinkName
}

func (sink ClipboardSink) Write(report string) error {
	return sink.Copier.Copy(report)
}

// Deliver writes report to every sink concurrently and returns the first failure.
// Sinks that have not started when another fails are skipped.
func Deliver(ctx context.Context, report string, sinks ...Sink) error {
	group, groupContext := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		currentSink := sink
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			if writeError := currentSink.Write(report); writeError != nil {
				return fmt.Errorf(errorSinkFormat, currentSink.Name(), writeError)
			}
			return nil
		})
	}
	return group.Wait()
}
