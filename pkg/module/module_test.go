package module

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModule struct {
	id      string
	enabled bool
	tag     string
}

func (m *stubModule) ID() string { return m.id }
func (m *stubModule) Enable(ctx context.Context) error { return nil }
func (m *stubModule) Disable(ctx context.Context) error { return nil }
func (m *stubModule) IsEnabled() bool { return m.enabled }

func TestBuilder_Defaults(t *testing.T) {
	ctx := context.Background()
	n := NewBuilder("root").Build()

	assert.Equal(t, "root", n.Name())
	assert.False(t, n.Check(), "new node should not be satisfied")
	assert.Empty(t, n.Children())

	require.NoError(t, n.Enable(ctx))
	assert.True(t, n.State().Enabled)
	assert.True(t, n.Check())

	require.NoError(t, n.Disable(ctx))
	assert.False(t, n.State().Enabled)
	assert.False(t, n.Check())
}

func TestBuilder_Overrides(t *testing.T) {
	ctx := context.Background()
	var calls []string

	n := NewBuilder("custom").
		WithCheck(func(s State) bool {
			calls = append(calls, "check")
			return false
		}).
		WithEnable(func(ctx context.Context, s *State) error {
			calls = append(calls, "enable")
			return errors.New("boom")
		}).
		WithDisable(func(ctx context.Context, s *State) error {
			calls = append(calls, "disable")
			s.Enabled = false
			return nil
		}).
		Build()

	assert.False(t, n.Check())
	assert.EqualError(t, n.Enable(ctx), "boom")
	assert.NoError(t, n.Disable(ctx))
	assert.Equal(t, []string{"check", "enable", "disable"}, calls)
}

func TestBuilder_NilOverridesKeepDefaults(t *testing.T) {
	n := NewBuilder("x").WithCheck(nil).WithEnable(nil).WithDisable(nil).WithChild(nil).Build()

	require.NoError(t, n.Enable(context.Background()))
	assert.True(t, n.Check())
	assert.Empty(t, n.Children())
}

func TestBuilder_ChildrenKeepDeclarationOrder(t *testing.T) {
	a := NewBuilder("a").Build()
	b := NewBuilder("b").Build()
	c := NewBuilder("c").Build()

	root := NewBuilder("root").WithChild(a).WithChild(b).WithChild(c).Build()

	names := make([]string, 0, 3)
	for _, child := range root.Children() {
		names = append(names, child.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestBuilder_ClosureCapturesConfigByValue(t *testing.T) {
	ports := []int{22, 80}
	cfg := struct{ Ports []int }{Ports: append([]int(nil), ports...)}

	var seen []int
	n := NewBuilder("fw").WithEnable(func(ctx context.Context, s *State) error {
		seen = cfg.Ports
		s.Enabled = true
		return nil
	}).Build()

	ports[0] = 8080
	require.NoError(t, n.Enable(context.Background()))
	assert.Equal(t, []int{22, 80}, seen)
}

func TestNewRegistry(t *testing.T) {
	fw := &stubModule{id: "firewall"}
	cp := &stubModule{id: "control_panel"}

	r, err := NewRegistry(fw, cp)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"firewall", "control_panel"}, r.IDs())

	got, ok := r.Lookup("control_panel")
	require.True(t, ok)
	assert.Same(t, cp, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name  string
		mods  []Module
		check func(t *testing.T, err error)
	}{
		{
			name: "duplicate identity",
			mods: []Module{&stubModule{id: "firewall"}, &stubModule{id: "firewall"}},
			check: func(t *testing.T, err error) {
				var dup *DuplicateIdentityError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "firewall", dup.ID)
			},
		},
		{
			name: "nil module",
			mods: []Module{nil},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNilModule)
			},
		},
		{
			name: "empty id",
			mods: []Module{&stubModule{}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.mods...)
			assert.Nil(t, r)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustRegistry(&stubModule{id: "a"}, &stubModule{id: "a"})
	})
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := MustRegistry(&stubModule{id: "a"}, &stubModule{id: "b"})

	all := r.All()
	all[0] = &stubModule{id: "z"}

	assert.Equal(t, []string{"a", "b"}, r.IDs())
}

func TestSet_LastWriteWins(t *testing.T) {
	first := &stubModule{id: "firewall", enabled: true, tag: "first"}
	other := &stubModule{id: "xserver", enabled: true}
	second := &stubModule{id: "firewall", enabled: false, tag: "second"}

	s := NewSet(first, other, second)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"firewall", "xserver"}, s.IDs(), "first insertion position is kept")
	assert.Equal(t, []string{"firewall"}, s.Replaced())

	got, ok := s.Lookup("firewall")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.False(t, got.IsEnabled())
}

func TestSet_WithNilIsIgnored(t *testing.T) {
	s := NewSet().With(nil)
	assert.Equal(t, 0, s.Len())
}

func TestSet_ExtendAndCompose(t *testing.T) {
	base := NewSet(&stubModule{id: "firewall", enabled: true})
	desktop := NewSet(&stubModule{id: "xserver", enabled: false})
	override := NewSet(&stubModule{id: "xserver", enabled: true, tag: "override"})

	s := NewSet().Extend(desktop).Extend(override).Extend(base).Extend(nil)
	assert.Equal(t, []string{"xserver", "firewall"}, s.IDs())

	x, _ := s.Lookup("xserver")
	assert.True(t, x.IsEnabled())

	composed := Compose(base, desktop, override)
	assert.Equal(t, []string{"firewall", "xserver"}, composed.IDs())
	assert.Len(t, composed.Modules(), 2)
	assert.Equal(t, []string{"xserver"}, composed.Replaced())
}
