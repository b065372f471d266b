package reconciler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callLog is shared by the fakes of one test so that ordering across
// modules can be asserted
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeModule struct {
	id         string
	enabled    bool
	ports      []int
	log        *callLog
	enableErr  error
	disableErr error
}

func (m *fakeModule) ID() string {
	return m.id
}

func (m *fakeModule) IsEnabled() bool {
	return m.enabled
}

func (m *fakeModule) Enable(ctx context.Context) error {
	if m.ports != nil {
		m.log.add("%s.enable%v", m.id, m.ports)
	} else {
		m.log.add("%s.enable", m.id)
	}
	return m.enableErr
}

func (m *fakeModule) Disable(ctx context.Context) error {
	m.log.add("%s.disable", m.id)
	return m.disableErr
}

func canonical(l *callLog, ids ...string) *module.Registry {
	mods := make([]module.Module, 0, len(ids))
	for _, id := range ids {
		mods = append(mods, &fakeModule{id: id, log: l})
	}
	return module.MustRegistry(mods...)
}

func fixedIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestApply_EnablesDeclaredAndDisablesUndeclared(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall", "control_panel"))

	set := module.NewSet(&fakeModule{id: "firewall", enabled: true, ports: []int{22, 80, 443}, log: l})
	run, err := rec.Apply(context.Background(), set)
	require.NoError(t, err)

	assert.Equal(t, []string{"firewall.enable[22 80 443]", "control_panel.disable"}, l.calls)
	assert.Equal(t, types.RunSucceeded, run.Status)
	require.Len(t, run.Outcomes, 2)
	assert.Equal(t, types.SourceDeclared, run.Outcomes[0].Source)
	assert.Equal(t, types.SourceDefault, run.Outcomes[1].Source)
	assert.Equal(t, types.PhaseDisable, run.Outcomes[1].Phase)
}

func TestApply_DeclaredButOffIsDisabled(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall"))

	declared := &fakeModule{id: "firewall", enabled: false, log: l}
	_, err := rec.Apply(context.Background(), module.NewSet(declared))
	require.NoError(t, err)

	assert.Equal(t, []string{"firewall.disable"}, l.calls)
}

func TestApply_EmptySetDisablesEverything(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall", "control_panel", "xserver"))

	run, err := rec.Apply(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"firewall.disable", "control_panel.disable", "xserver.disable"}, l.calls)
	assert.Len(t, run.Outcomes, 3)
}

func TestApply_ExactlyOneActionPerIdentity(t *testing.T) {
	ids := []string{"firewall", "control_panel", "xserver", "shell", "zen_browser"}
	l := &callLog{}
	rec := New(canonical(l, ids...))

	set := module.NewSet(
		&fakeModule{id: "xserver", enabled: true, log: l},
		&fakeModule{id: "shell", enabled: false, log: l},
	)
	_, err := rec.Apply(context.Background(), set)
	require.NoError(t, err)

	require.Len(t, l.calls, len(ids))
	assert.Equal(t, []string{
		"firewall.disable",
		"control_panel.disable",
		"xserver.enable",
		"shell.disable",
		"zen_browser.disable",
	}, l.calls)
}

func TestApply_Idempotent(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall", "control_panel"))
	set := module.NewSet(&fakeModule{id: "firewall", enabled: true, log: l})

	_, err := rec.Apply(context.Background(), set)
	require.NoError(t, err)
	first := append([]string(nil), l.calls...)

	l.calls = nil
	_, err = rec.Apply(context.Background(), set)
	require.NoError(t, err)

	assert.Equal(t, first, l.calls)
}

func TestApply_DeclarationOrderDoesNotMatter(t *testing.T) {
	run := func(order ...string) []string {
		l := &callLog{}
		rec := New(canonical(l, "firewall", "control_panel", "xserver"))
		set := module.NewSet()
		for _, id := range order {
			set.With(&fakeModule{id: id, enabled: true, log: l})
		}
		_, err := rec.Apply(context.Background(), set)
		require.NoError(t, err)
		return l.calls
	}

	assert.Equal(t, run("xserver", "firewall"), run("firewall", "xserver"))
}

func TestApply_FailurePolicies(t *testing.T) {
	cause := errors.New("iptables: permission denied")

	tests := []struct {
		name      string
		policy    Policy
		wantCalls []string
		check     func(t *testing.T, err error)
		wantLast  types.OutcomeStatus
	}{
		{
			name:      "continue on error",
			policy:    ContinueOnError,
			wantCalls: []string{"firewall.enable", "control_panel.disable"},
			wantLast:  types.OutcomeSucceeded,
			check: func(t *testing.T, err error) {
				var applyErr *ApplyError
				require.ErrorAs(t, err, &applyErr)
				assert.Equal(t, []string{"firewall"}, applyErr.IDs())
				assert.ErrorIs(t, err, cause)
				assert.Contains(t, err.Error(), "firewall")
				assert.Contains(t, err.Error(), "permission denied")
			},
		},
		{
			name:      "fail fast",
			policy:    FailFast,
			wantCalls: []string{"firewall.enable"},
			wantLast:  types.OutcomeSkipped,
			check: func(t *testing.T, err error) {
				var actionErr *ActionError
				require.ErrorAs(t, err, &actionErr)
				assert.Equal(t, "firewall", actionErr.ID)
				assert.Equal(t, types.PhaseEnable, actionErr.Phase)
				assert.Same(t, cause, actionErr.Err)

				var applyErr *ApplyError
				assert.False(t, errors.As(err, &applyErr), "fail fast returns a single cause")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &callLog{}
			rec := New(canonical(l, "firewall", "control_panel"), WithPolicy(tt.policy))
			set := module.NewSet(&fakeModule{id: "firewall", enabled: true, log: l, enableErr: cause})

			run, err := rec.Apply(context.Background(), set)
			require.Error(t, err)
			tt.check(t, err)

			assert.Equal(t, tt.wantCalls, l.calls)
			assert.Equal(t, types.RunFailed, run.Status)
			require.Len(t, run.Outcomes, 2)
			assert.Equal(t, types.OutcomeFailed, run.Outcomes[0].Status)
			assert.Equal(t, tt.wantLast, run.Outcomes[1].Status)
		})
	}
}

func TestApply_ContinueOnErrorCollectsEveryFailure(t *testing.T) {
	l := &callLog{}
	reg := module.MustRegistry(
		&fakeModule{id: "firewall", log: l},
		&fakeModule{id: "control_panel", log: l, disableErr: errors.New("registry locked")},
		&fakeModule{id: "shell", log: l},
	)
	rec := New(reg, WithPolicy(ContinueOnError))
	set := module.NewSet(&fakeModule{id: "firewall", enabled: true, log: l, enableErr: errors.New("no iptables")})

	_, err := rec.Apply(context.Background(), set)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, []string{"firewall", "control_panel"}, applyErr.IDs())
	assert.Equal(t, types.PhaseDisable, applyErr.Failures[1].Phase)
	assert.Len(t, l.calls, 3)
}

func TestApply_DuplicateDeclarationLastWriteWins(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall"))

	set := module.NewSet(
		&fakeModule{id: "firewall", enabled: true, ports: []int{22}, log: l},
		&fakeModule{id: "firewall", enabled: true, ports: []int{443}, log: l},
	)
	_, err := rec.Apply(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, []string{"firewall.enable[443]"}, l.calls)

	l.calls = nil
	set = module.NewSet(
		&fakeModule{id: "firewall", enabled: true, log: l},
		&fakeModule{id: "firewall", enabled: false, log: l},
	)
	_, err = rec.Apply(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, []string{"firewall.disable"}, l.calls)
}

func TestApply_MissingCanonicalDefault(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall"))

	set := module.NewSet(
		&fakeModule{id: "firewall", enabled: true, log: l},
		&fakeModule{id: "bluetooth", enabled: true, log: l},
	)
	run, err := rec.Apply(context.Background(), set)

	var missing *MissingCanonicalDefaultError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "bluetooth", missing.ID)
	assert.Empty(t, l.calls, "no action runs before validation")
	assert.Equal(t, types.RunFailed, run.Status)
}

func TestPlan(t *testing.T) {
	l := &callLog{}
	rec := New(canonical(l, "firewall", "control_panel", "xserver"))

	steps, err := rec.Plan(module.NewSet(
		&fakeModule{id: "xserver", enabled: true, log: l},
		&fakeModule{id: "firewall", enabled: false, log: l},
	))
	require.NoError(t, err)

	assert.Equal(t, []types.Step{
		{Module: "firewall", Phase: types.PhaseDisable, Source: types.SourceDeclared},
		{Module: "control_panel", Phase: types.PhaseDisable, Source: types.SourceDefault},
		{Module: "xserver", Phase: types.PhaseEnable, Source: types.SourceDeclared},
	}, steps)
	assert.Empty(t, l.calls)
}

func TestApply_PublishesEvents(t *testing.T) {
	l := &callLog{}
	recorder := &events.Recorder{}
	rec := New(canonical(l, "firewall", "control_panel"), WithPublisher(recorder), WithRunIDs(fixedIDs()))

	run, err := rec.Apply(context.Background(), module.NewSet(&fakeModule{id: "firewall", enabled: true, log: l}))
	require.NoError(t, err)

	assert.Equal(t, "id-1", run.ID)
	assert.Equal(t, []events.EventType{
		events.EventApplyStarted,
		events.EventModuleEnabled,
		events.EventModuleDisabled,
		events.EventApplyFinished,
	}, recorder.Types())

	evs := recorder.Events()
	assert.Equal(t, "control_panel", evs[2].Module)
	assert.Equal(t, "default", evs[2].Metadata["source"])
	assert.Equal(t, "succeeded", evs[3].Metadata["status"])
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: FailFast},
		{in: "fail-fast", want: FailFast},
		{in: "Continue-On-Error", want: ContinueOnError},
		{in: "retry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
