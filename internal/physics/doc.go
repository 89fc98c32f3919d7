// Package physics provides the two physical models of the catch scenario.
//
//   - [Ball]: vertical free fall onto the inclined track
//   - [Track]: force balance of the train on the incline
//
// Both are built from a [dynamo.Scenario]. Ball is a pure value; Track
// caches the trigonometry of the incline.
//
//	ball := physics.NewBall(sc)
//	track, err := physics.NewTrack(sc)
//	a := track.Acceleration(v, force)
package physics
