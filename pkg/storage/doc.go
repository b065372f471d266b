/*
Package storage keeps the apply journal: one record per reconciliation pass,
with the outcome of every module action.

The journal is a BoltDB file (ezix.db) in the data directory with two buckets:

	runs       run id → JSON-encoded types.Run
	run_index  start time (big-endian nanoseconds) + run id → run id

The index bucket gives newest-first listing without decoding every record.

	store, err := storage.NewBoltStore("/var/lib/ezix")
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RecordRun(run); err != nil {
		logger.Warn().Err(err).Msg("failed to record run")
	}

	recent, _ := store.ListRuns(10)

The journal is an audit trail. Reconciliation never reads it: every pass
starts from the declared configuration and the live state of the host.
*/
package storage
