package metrics

// CommandDurationBuckets defines latency buckets for relayed command
// execution. Session starts can block for minutes, so the range runs
// well past typical HTTP latencies.
var CommandDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// HTTPDurationBuckets defines latency buckets for HTTP request duration metrics.
var HTTPDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
