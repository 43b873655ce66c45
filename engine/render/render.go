// Package render holds the contract between the framework and the engine:
// the root object, windows, viewports, scene graph and resource groups.
// Everything behind these interfaces is owned by the engine; callers only
// keep borrowed references that are invalid once the root is shut down.
package render

// SceneType selects the kind of scene manager to create.
type SceneType uint16

const (
	SceneTypeGeneric SceneType = 1 << iota
	SceneTypeExteriorClose
	SceneTypeInterior
)

func (t SceneType) String() string {
	switch t {
	case SceneTypeGeneric:
		return "generic"
	case SceneTypeExteriorClose:
		return "exterior_close"
	case SceneTypeInterior:
		return "interior"
	default:
		return "unknown"
	}
}

// OperationType is the primitive topology of manual geometry.
type OperationType uint8

const (
	OperationTypePointList OperationType = iota + 1
	OperationTypeLineList
	OperationTypeTriangleList
)

// Name of the filesystem archive type for resource locations.
const FileSystemLocation = "FileSystem"

// Name of the resource group that always exists.
const DefaultResourceGroup = "General"

// NameValuePairList carries free form options such as window parameters.
type NameValuePairList map[string]string

// ColourValue is a linear RGBA colour with components in [0, 1].
type ColourValue struct {
	R, G, B, A float32
}

func NewColourValue(r, g, b float32) ColourValue {
	return ColourValue{R: r, G: g, B: b, A: 1}
}

// RenderSystem is a rendering backend the root can drive.
type RenderSystem interface {
	Name() string
}

// Root is the entry point of the engine.
type Root interface {
	// AvailableRenderers lists the render systems in preference order.
	AvailableRenderers() []RenderSystem
	SetRenderSystem(rs RenderSystem) error
	// Initialise starts the selected render system. When autoCreateWindow
	// is true a window is created from the configured defaults and returned.
	Initialise(autoCreateWindow bool, windowTitle string, customCapabilities string) (RenderWindow, error)
	CreateRenderWindow(name string, width, height uint32, fullscreen bool, params NameValuePairList) (RenderWindow, error)
	CreateSceneManager(sceneType SceneType, name string) (SceneManager, error)
	// RenderOneFrame updates every auto-updated render window once.
	RenderOneFrame() error
	// ClearEventTimes resets the frame timing history.
	ClearEventTimes()
	// PumpMessages processes pending window system events.
	PumpMessages()
	ResourceGroupManager() ResourceGroupManager
	Shutdown() error
}

// RenderWindow is a render target backed by a platform window.
type RenderWindow interface {
	Name() string
	Width() uint32
	Height() uint32
	// AddViewport divides the window with a viewport rendering from cam.
	// left, top, width and height are relative to the window size, in [0, 1].
	AddViewport(cam Camera, zOrder int, left, top, width, height float32) (Viewport, error)
	SetActive(active bool)
	IsActive() bool
	SetAutoUpdated(autoUpdate bool)
	IsAutoUpdated() bool
	// Update renders every viewport of the window and presents the result
	// when swapBuffers is true.
	Update(swapBuffers bool) error
	SwapBuffers() error
	IsClosed() bool
	Destroy() error
}

// Viewport is a rectangle of a window a camera renders into.
type Viewport interface {
	Camera() Camera
	ZOrder() int
	ActualLeft() int
	ActualTop() int
	ActualWidth() int
	ActualHeight() int
	SetAutoUpdated(autoUpdate bool)
	IsAutoUpdated() bool
	SetBackgroundColour(c ColourValue)
	BackgroundColour() ColourValue
}

// MovableObject is anything that can be attached to a scene node.
type MovableObject interface {
	Name() string
	// ParentSceneNode is nil until the object is attached.
	ParentSceneNode() SceneNode
}

// Camera is a point of view into a scene.
type Camera interface {
	MovableObject
	SetAspectRatio(ratio float32)
	AspectRatio() float32
	SetNearClipDistance(distance float32) error
	NearClipDistance() float32
	SetFarClipDistance(distance float32) error
	FarClipDistance() float32
}

// Entity is an instance of a mesh in a scene.
type Entity interface {
	MovableObject
	MeshName() string
}

// ManualObject builds geometry vertex by vertex.
type ManualObject interface {
	MovableObject
	SetDynamic(dynamic bool)
	Begin(materialName string, op OperationType) error
	Position(x, y, z float32)
	Colour(c ColourValue)
	Triangle(i0, i1, i2 uint32)
	End() error
	// ConvertToMesh registers the built geometry as a reusable mesh.
	ConvertToMesh(meshName string) error
}

// SceneNode positions attached objects and child nodes in the scene.
type SceneNode interface {
	Name() string
	// CreateChildSceneNode creates a child node. An empty name generates one.
	CreateChildSceneNode(name string) (SceneNode, error)
	AttachObject(obj MovableObject) error
	Translate(x, y, z float32)
	Position() (x, y, z float32)
}

// SceneManager owns the scene graph it creates.
type SceneManager interface {
	Name() string
	Type() SceneType
	RootSceneNode() SceneNode
	CreateCamera(name string) (Camera, error)
	// CreateEntity instantiates the named mesh, loading it from the
	// initialised resource groups when it is not yet in memory.
	CreateEntity(meshName string) (Entity, error)
	CreateManualObject(name string) (ManualObject, error)
}

// ResourceGroupManager is the shared registry of named resource groups.
type ResourceGroupManager interface {
	CreateResourceGroup(name string) error
	AddResourceLocation(path, locationType, group string, recursive bool) error
	InitialiseResourceGroup(name string) error
	LoadResourceGroup(name string) error
}
