// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics provides a plug-in exporting Prometheus metrics about
// the requests a client executes.
//
//	reg := prometheus.NewRegistry()
//	client := &apiclient.Client{
//		Plugins: []apiclient.Plugin{metrics.New(metrics.Options{Registerer: reg})},
//	}
package metrics
