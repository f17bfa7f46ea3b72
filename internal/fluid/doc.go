// Package fluid provides the shared value types for drilling-fluid
// simulation.
//
// The package defines the data that flows between the model packages:
//
//   - [Condition]: downhole environment snapshot at one instant
//   - [Params]: rheological parameter set (Herschel-Bulkley or Bingham)
//   - [Viscosity]: apparent viscosity with an explicit undefined state
//   - [Frame]: one time step of a simulation run
//   - [Result]: the ordered frame sequence plus aggregate metrics
//
// # Error Taxonomy
//
// Model coefficients outside their domain fail with [ErrInvalidParameter];
// runtime values violating a precondition fail with [ErrInvalidInput].
// Viscosity at zero shear rate is not an error: it is the undefined
// [Viscosity] value, which callers must check before using the number.
// Failures inside a simulation step are wrapped in [StepError] so the
// offending step index survives propagation.
package fluid
