package cmd

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoctorCmd_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		cmd := newDoctorCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		_ = cmd.Execute()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	current := runtime.NumGoroutine()
	leaked := current - baseline

	assert.LessOrEqual(t, leaked, 2, "goroutine leak detected: baseline=%d, current=%d, leaked=%d", baseline, current, leaked)
}

func TestDoctorCmd_BasicExecution(t *testing.T) {
	var stdout bytes.Buffer

	cmd := newDoctorCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	_ = cmd.Execute()

	assert.NotEmpty(t, stdout.String())
}

func TestDoctorCmd_JSONOutput(t *testing.T) {
	var stdout bytes.Buffer

	cmd := newDoctorCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--json"})

	_ = cmd.Execute()

	output := stdout.String()
	assert.Contains(t, output, `"status"`)
	assert.Contains(t, output, `"checks"`)
}
