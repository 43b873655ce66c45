package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/scaffold/engine/core"
)

func testInitiator() *Initiator {
	return &Initiator{
		WindowName: "Framework Window",
		SizeX:      800,
		SizeY:      600,
	}
}

func TestNewSelectsFirstRenderSystem(t *testing.T) {
	root := newFakeRoot("OpenGL Rendering Subsystem", "Headless Software Rendering Subsystem")

	f, err := New(root, testInitiator())
	require.NoError(t, err)

	assert.True(t, f.Ready())
	assert.Equal(t, "OpenGL Rendering Subsystem", f.RenderSystem().Name())
	assert.True(t, root.initialised)
	assert.Equal(t, calls{"SetRenderSystem(OpenGL Rendering Subsystem)", "Initialise(false)"}, *root.log)
}

func TestNewWithoutRenderSystems(t *testing.T) {
	root := newFakeRoot()

	f, err := New(root, testInitiator())
	require.NoError(t, err)

	assert.False(t, f.Ready())
	assert.False(t, root.initialised)

	// not ready: both operations log and do nothing
	require.NoError(t, f.CreateWindow(testInitiator()))
	assert.Nil(t, root.window)
	require.NoError(t, f.RunWindow(context.Background(), ActionFunc(func() error {
		t.Fatal("the action must not run")
		return nil
	})))
	assert.Empty(t, *root.log)
}

func TestNewRejectsMissingArguments(t *testing.T) {
	_, err := New(nil, testInitiator())
	assert.ErrorIs(t, err, core.ErrInvalidParams)
}

func TestCreateWindow(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)

	require.NoError(t, f.CreateWindow(testInitiator()))
	require.NotNil(t, root.window)
	assert.Equal(t, root.window, f.Window())
	assert.Contains(t, *root.log, "CreateRenderWindow(Framework Window,800,600)")
}

func TestRunWindowStopsWhenClosed(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))

	// checked before and after each pump
	root.window.closedAfter = 6
	runs := 0
	err = f.RunWindow(context.Background(), ActionFunc(func() error {
		runs++
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, runs)
	assert.Equal(t, 3, root.pumps, "one pump per action run")
	assert.Equal(t, 7, root.window.queries)
}

func TestRunWindowClosedWhilePumpingMessages(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))

	a := NewBasicViewportAction(f)
	configure(a)
	require.NoError(t, a.SceneSetup())

	root.closeOnPump = 3
	require.NoError(t, f.RunWindow(context.Background(), a))
	assert.Equal(t, 3, root.pumps)
	assert.Equal(t, 2, root.frames)
	assert.True(t, f.Window().IsClosed())
}

func TestMainSequenceWithoutRenderSystems(t *testing.T) {
	root := newFakeRoot()
	initiator := testInitiator()
	f, err := New(root, initiator)
	require.NoError(t, err)
	require.False(t, f.Ready())

	require.NoError(t, f.CreateWindow(initiator))

	a := NewBasicViewportAction(f)
	configure(a)
	require.NoError(t, a.SceneSetup())
	assert.Nil(t, a.SceneManager())

	ml := NewMeshLoader(root.ResourceGroupManager(), "WoodBlockResources", "./meshes", false)
	require.NoError(t, ml.LoadResourceDirectory())

	require.NoError(t, f.RunWindow(context.Background(), a))
	assert.Zero(t, root.pumps)
	assert.Nil(t, root.window)

	a.Release()
	require.NoError(t, f.Close())
}

func TestRunWindowClosedBeforeStart(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))

	root.window.closedAfter = 0
	require.NoError(t, f.RunWindow(context.Background(), ActionFunc(func() error {
		t.Fatal("the action must not run on a closed window")
		return nil
	})))
	assert.Zero(t, root.pumps)
}

type countingAction struct {
	BaseAction
	runs  int
	limit int
}

func (a *countingAction) Run() error {
	a.runs++
	if a.runs == a.limit {
		a.Finish()
	}
	return nil
}

func TestRunWindowStopsWhenActionDone(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))

	action := &countingAction{limit: 5}
	require.NoError(t, f.RunWindow(context.Background(), action))
	assert.Equal(t, 5, action.runs)
	assert.True(t, action.Done())
}

func TestRunWindowPropagatesActionError(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))

	boom := errors.New("boom")
	err = f.RunWindow(context.Background(), ActionFunc(func() error { return boom }))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, root.pumps)
}

func TestRunWindowCancelled(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))

	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	err = f.RunWindow(ctx, ActionFunc(func() error {
		runs++
		if runs == 2 {
			cancel()
		}
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestRunWindowWithoutWindow(t *testing.T) {
	f, err := New(newFakeRoot("Headless"), testInitiator())
	require.NoError(t, err)

	err = f.RunWindow(context.Background(), ActionFunc(func() error { return nil }))
	assert.ErrorIs(t, err, core.ErrNoRenderWindow)
}

func TestClose(t *testing.T) {
	root := newFakeRoot("Headless")
	f, err := New(root, testInitiator())
	require.NoError(t, err)
	require.NoError(t, f.CreateWindow(testInitiator()))
	window := root.window

	require.NoError(t, f.Close())
	assert.True(t, window.destroyed)
	assert.True(t, root.shutdown)
	assert.False(t, f.Ready())
	assert.Nil(t, f.Window())
	assert.Nil(t, f.Root())

	// closing twice is harmless
	require.NoError(t, f.Close())
}
