// Package errors provides coded, categorised errors for vtree.
//
// Every error raised by the reconciliation engine, the drivers and the
// tooling around them carries a stable code (e.g. "E001") registered in
// this package. A code maps to:
//   - a category (driver, contract, component, protocol, config, cli)
//   - a short message
//   - a detailed explanation
//
// # Categories
//
// Driver and component errors travel through the ordinary error channel of
// Visit and Diff and abort the current pass. Contract errors signal a broken
// engine invariant (a restructured attribute list, a duplicate key, a
// re-entrant render) and are raised with panic via Violation, never
// returned.
//
// # Usage
//
//	err := errors.New("E001").
//	    WithPath("0.srow-7").
//	    Wrap(backendErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Driver callback failed
//	//
//	//   at 0.srow-7
//	//
//	//   The backend rejected a resource operation.
package errors
