// Package physics bridges scene objects and a [dynamics.World].
//
// A [Manager] resolves its engine module asynchronously. Until that
// happens it is in [StateUninitialized] and [Manager.AddObject] reports
// [NotReady] together with [ErrNotReady]; callers that need a body should
// wait on [Manager.Ready] or [Manager.Wait] first:
//
//	m := physics.NewManager(ctx, sc.Root, dynamics.DefaultLoader(), physics.DefaultConfig(), logger)
//	if err := m.Wait(ctx); err != nil {
//	    return err
//	}
//	m.AddObject(disk.Object(), 1)
//
// Data flows from the world to the scene only: each [Manager.Step] copies
// every body's position and rotation back onto its object.
package physics
