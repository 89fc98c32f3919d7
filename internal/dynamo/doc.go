// Package dynamo provides the core value types shared by the catch
// simulation: the immutable scenario description, the per-step working
// state and the dataset record emitted for every step.
//
//   - [Scenario]: read-only input for one run
//   - [State]: mutable working value advanced once per step
//   - [Record]: immutable snapshot in fixed dataset column order
//   - [Sink]: receives the finished record sequence
//   - [Metric], [Observer]: per-record hooks
//
// # Example
//
//	sc := dynamo.DefaultScenario()
//	if err := sc.Validate(); err != nil {
//	    return err
//	}
//	res, err := sim.New(sc).Run(sink)
//
// # Thread Safety
//
// Scenario is a plain value and may be shared freely. A State belongs to
// exactly one simulation run and must not be shared across goroutines.
package dynamo
