// Package phys implements the rigid-body core of the simulation: a
// single circular point mass ([Body]) bouncing inside a rectangular
// boundary ([Bounds]).
//
// The per-frame contract is force accumulation followed by
// integration followed by collision resolution:
//
//	ball.ApplyGravity(g)
//	ball.ApplyAirResistance(k)
//	ball.Integrate(dt)
//	ball.ResolveBounds(bounds)
//
// Integration is semi-implicit Euler. Callers must clamp dt before
// passing it in; the driving loop in the sim package does this.
package phys
