package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/storage"
	"github.com/ezix/ezix/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		event *events.Event
		want  string
	}{
		{&events.Event{Type: events.EventModuleEnabled, Module: "firewall"}, "✓ firewall enabled"},
		{&events.Event{Type: events.EventModuleDisabled, Module: "shell", Metadata: map[string]string{"source": "default"}}, "✓ shell disabled (not declared)"},
		{&events.Event{Type: events.EventModuleDisabled, Module: "shell", Metadata: map[string]string{"source": "declared"}}, "✓ shell disabled"},
		{&events.Event{Type: events.EventNodeSatisfied, Module: "xserver"}, "= xserver already satisfied"},
		{&events.Event{Type: events.EventNodeBlocked, Module: "xserver"}, "! xserver not satisfied after enable, children skipped"},
		{&events.Event{Type: events.EventModuleFailed, Message: "failed to enable 'firewall' module: boom"}, "✗ failed to enable 'firewall' module: boom"},
		{&events.Event{Type: events.EventModuleSkipped, Module: "zen_browser"}, "- zen_browser skipped"},
		{&events.Event{Type: events.EventApplyStarted}, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, formatEvent(tt.event))
		})
	}
}

func TestModulesCommand(t *testing.T) {
	out, err := execute(t, "modules")
	require.NoError(t, err)

	assert.Regexp(t, `firewall\s+flat\s+inbound port allow-list`, out)
	assert.Regexp(t, `xserver\s+tree`, out)
	assert.Contains(t, out, "zen_browser")
}

func TestPlanCommand(t *testing.T) {
	path := writeConfig(t, "system.yaml", `apiVersion: ezix/v1
kind: SystemConfig
modules:
  - id: firewall
    ports: [22]
  - id: shell
    enabled: false
  - id: shell
    enabled: true
`)

	out, err := execute(t, "plan", "-f", path)
	require.NoError(t, err)

	assert.Regexp(t, `firewall\s+enable\s+declared enabled`, out)
	assert.Regexp(t, `control_panel\s+disable\s+not declared`, out)
	assert.Regexp(t, `shell\s+enable\s+declared enabled`, out)
	assert.Contains(t, out, "shell is declared more than once")
}

func TestPlanCommand_UnknownModule(t *testing.T) {
	path := writeConfig(t, "system.yaml", "apiVersion: ezix/v1\nkind: SystemConfig\nmodules:\n  - id: bluetooth\n")

	_, err := execute(t, "plan", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown module "bluetooth"`)
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewBoltStore(dir)
	require.NoError(t, err)
	started := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordRun(&types.Run{
		ID:         "run-42",
		Kind:       "registry",
		Policy:     "fail-fast",
		Status:     types.RunFailed,
		Error:      "failed to enable 'firewall' module: boom",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Outcomes: []types.Outcome{
			{Module: "firewall", Phase: types.PhaseEnable, Status: types.OutcomeFailed, Error: "boom"},
			{Module: "shell", Phase: types.PhaseDisable, Status: types.OutcomeSkipped},
		},
	}))
	require.NoError(t, store.Close())

	out, err := execute(t, "history", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "run-42  2026-05-01T09:00:00Z  registry  failed")

	out, err = execute(t, "history", "--data-dir", dir, "run-4")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:   failed")
	assert.Regexp(t, `firewall\s+enable\s+failed\s+boom`, out)
	assert.Regexp(t, `shell\s+disable\s+skipped`, out)
}

func TestApplyCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("applies Linux host defaults")
	}

	root := t.TempDir()
	dataDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "ezix.prom")
	path := writeConfig(t, "system.toml", `apiVersion = "ezix/v1"
kind = "SystemConfig"

[[modules]]
id = "zen_browser"
install_dir = "/opt/zen"

[modules.policies]
disable_app_update = true
`)

	out, err := execute(t, "apply", "-f", path, "--root", root, "--data-dir", dataDir, "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, out, "Applying 1 declared module(s) (fail-fast)")
	assert.Contains(t, out, "✓ zen_browser enabled")
	assert.Contains(t, out, "✓ firewall disabled (not declared)")
	assert.Contains(t, out, "✓ Apply succeeded: 5 action(s)")
	assert.FileExists(t, filepath.Join(root, "opt", "zen", "distribution", "policies.json"))
	assert.FileExists(t, metricsFile)

	store, err := storage.NewBoltStore(dataDir)
	require.NoError(t, err)
	defer store.Close()
	run, err := store.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, types.RunSucceeded, run.Status)
	assert.Len(t, run.Outcomes, 5)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ezix version dev")
}

func TestDoctorCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("registry probe needs administrator rights")
	}
	saved := doctorRunner
	t.Cleanup(func() { doctorRunner = saved })

	rec := cmdrun.NewRecorder()
	rec.Output("iptables --version", []byte("iptables v1.8.10 (nf_tables)\n"))
	doctorRunner = rec

	dataDir := filepath.Join(t.TempDir(), "data")
	out, err := execute(t, "doctor", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Regexp(t, `✓ firewall: iptables\s+iptables v1.8.10`, out)
	assert.Regexp(t, `✓ xserver: systemctl\s+systemctl available`, out)
	assert.Contains(t, out, "✓ journal")

	rec.Fail("systemctl", errors.New("executable file not found in $PATH"))
	out, err = execute(t, "doctor", "--data-dir", dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 check(s) failed")
	assert.Regexp(t, `✗ xserver: systemctl\s+.*executable file not found`, out)
}
