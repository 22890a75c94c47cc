// Package routetable serves resolutions from a route table file.
//
// A Table owns the route registry built from the last route table that
// loaded. Reloads compile the new table into a fresh registry and swap it
// in only when every route compiles, so resolutions never observe a half
// applied table.
//
// # Usage
//
//	table := routetable.New(routetable.WithLogger(logger), routetable.WithMetrics(metrics))
//	if err := table.Load(cfg); err != nil {
//	    return err
//	}
//
//	w, err := config.NewWatcher(path, table.Reload, config.WithErrorCallback(table.ReloadFailed))
package routetable
