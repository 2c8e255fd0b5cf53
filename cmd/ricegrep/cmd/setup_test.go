package cmd

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetupCmd_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		cmd := newSetupCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--check"})
		_ = cmd.Execute()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	current := runtime.NumGoroutine()
	leaked := current - baseline

	assert.LessOrEqual(t, leaked, 2, "goroutine leak detected: baseline=%d, current=%d, leaked=%d", baseline, current, leaked)
}

func TestSetupCmd_BasicExecution(t *testing.T) {
	var stdout bytes.Buffer

	cmd := newSetupCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--check"})

	err := cmd.Execute()

	assert.NoError(t, err)
	assert.NotEmpty(t, stdout.String())
}

func TestSetupCmd_VerboseFlag(t *testing.T) {
	var stdout bytes.Buffer

	cmd := newSetupCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--verbose"})

	err := cmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, stdout.String(), "Ready")
}

func TestSetupCmd_ReportsConfiguration(t *testing.T) {
	var stdout bytes.Buffer

	cmd := newSetupCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()

	assert.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "Provider")
	assert.Contains(t, output, "Dimensions")
}
