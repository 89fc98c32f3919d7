// Package control provides the feedback controller that steers the train.
//
// [PID] consumes the horizontal tracking error (ball_x - train position)
// once per timestep and returns the control force:
//
//	pid := control.NewPID(45, 0.5, 25, sc.InitialError())
//	force, err := pid.Step(sc.BallX-s, sc.Dt)
//
// The integral and derivative terms are exposed for recording.
package control
