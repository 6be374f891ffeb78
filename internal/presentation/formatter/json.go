package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes rows as an indented JSON array. Costs are encoded as
// decimal strings so no precision is lost.
func (f *JSONFormatter) Format(w io.Writer, rows []SessionRow) error {
	if rows == nil {
		rows = []SessionRow{}
	}
	data, err := sonic.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
