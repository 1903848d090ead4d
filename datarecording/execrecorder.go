package datarecording

import (
	"os"
	"strings"
	"time"

	"github.com/rs/xid"
)

// ExecInfoTable is the table that describes the execution that produced a
// recording.
const ExecInfoTable = "exec_info"

// ExecInfo is a property of the execution.
type ExecInfo struct {
	Property string
	Value    string
}

const timeLayout = "2006-01-02 15:04:05.000000000"

// Records program execution
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// Start logs the current execution.
func (e *execRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Run ID", xid.New().String()},
		ExecInfo{"Start Time", time.Now().Format(timeLayout)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err == nil {
		e.entries = append(e.entries, ExecInfo{"Working Directory", cwd})
	}
}

// End writes the execution information along with the exit time.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.recorder.InsertData(ExecInfoTable,
		ExecInfo{"End Time", time.Now().Format(timeLayout)})

	e.entries = nil
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		recorder: recorder,
	}

	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return e
}
