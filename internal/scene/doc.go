// Package scene provides the render-side scene graph.
//
// An [Object] carries a local transform (position, quaternion rotation,
// scale), optional [Geometry] and an optional [PhysicsHint]. Groups are
// objects without geometry. World transforms compose parent first:
//
//	world := parent.LocalMatrix() * child.LocalMatrix()
//
// Physics bodies are referenced through the [Body] interface; the scene never
// creates or destroys them.
package scene
