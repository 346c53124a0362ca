// Package testdoubles provides spies for the registry observability interfaces and for its Notifier.
//
// Every spy takes a recordCalls switch: with recordCalls=false it satisfies the interface and records nothing,
// which is handy for exercising the instrumentation code paths without asserting on them.
package testdoubles
