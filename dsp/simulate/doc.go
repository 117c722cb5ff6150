// Package simulate generates SNORP event streams: paired sequences of pulse
// and gap durations drawn from duration laws.
//
// Two policies are provided. [Generator.FixedCount] draws a fixed number of
// independent pulse/gap pairs. [Generator.FixedDuration] keeps drawing pairs
// until a time budget is used up and truncates the last draw so the
// realization covers the budget exactly.
//
// All draws of a Generator come from a single seeded PCG stream, so a
// realization is reproducible from its (seed, stream) pair. Generators are
// not safe for concurrent use; give each parallel worker its own stream.
package simulate
