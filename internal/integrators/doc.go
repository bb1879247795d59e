// Package integrators advances a universe in time under an acceleration
// field.
//
// Steppers come in two capabilities:
//
//   - [Stepper]: fixed step size ([Euler], [RK4])
//   - [AdaptiveStepper]: additionally returns a recommended next step size
//     from an embedded error estimate ([RKN45], [Nystrom], [RKN67])
//
// Steppers hold configuration only. Stage evaluations run on pooled scratch
// buffers and the universe is written once, after every evaluation succeeded
// and the committed state is finite. A step that fails leaves the universe as
// it was before the call.
//
// # Example
//
//	field := gravity.New()
//	stepper := integrators.NewRKN45(field)
//	h := 20.0
//	for i := 0; i < steps; i++ {
//	    next, err := stepper.StepAdaptive(uni, h)
//	    if err != nil {
//	        return err
//	    }
//	    h = next
//	}
package integrators
