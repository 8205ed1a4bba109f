// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides configurability for Prometheus-based metrics.  The more general go-kit interfaces
are used where possible.  connexec uses it to build the driver.Measures bundle from a declarative list
of Metric descriptors, so that a driver.Driver never imports Prometheus directly.
*/
package xmetrics
