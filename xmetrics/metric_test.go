// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestNewCollectorRequiresName(t *testing.T) {
	var assert = assert.New(t)

	c, err := NewCollector(Metric{Type: CounterType})
	assert.Nil(c)
	assert.Error(err)
}

func TestNewCollectorUnsupportedType(t *testing.T) {
	var assert = assert.New(t)

	c, err := NewCollector(Metric{Name: "test", Type: "bogus"})
	assert.Nil(c)
	assert.Error(err)
}

func TestNewCollectorTypes(t *testing.T) {
	testData := []struct {
		metricType string
		expected   interface{}
	}{
		{CounterType, &prometheus.CounterVec{}},
		{GaugeType, &prometheus.GaugeVec{}},
		{HistogramType, &prometheus.HistogramVec{}},
		{SummaryType, &prometheus.SummaryVec{}},
	}

	for _, record := range testData {
		t.Run(record.metricType, func(t *testing.T) {
			var assert = assert.New(t)

			c, err := NewCollector(Metric{Name: "test_" + record.metricType, Type: record.metricType})
			assert.NoError(err)
			assert.IsType(record.expected, c)
		})
	}
}

func TestNewCollectorDefaults(t *testing.T) {
	var assert = assert.New(t)

	c, err := NewCollector(Metric{Name: "defaulted", Type: CounterType})
	assert.NoError(err)
	assert.NotNil(c)

	// a bare collector vector with no labels exposes exactly one child metric
	counterVec := c.(*prometheus.CounterVec)
	assert.NotNil(counterVec.WithLabelValues())
}

func TestMergerAddMetricsNoOverride(t *testing.T) {
	var assert = assert.New(t)

	mr := NewMerger().AddMetrics(false, []Metric{
		{Name: "first", Type: CounterType},
		{Name: "second", Type: GaugeType},
	})

	assert.NoError(mr.Err())
	assert.Len(mr.Merged(), 2)
}

func TestMergerAddMetricsDuplicateRejected(t *testing.T) {
	var assert = assert.New(t)

	mr := NewMerger().AddMetrics(false, []Metric{
		{Name: "dup", Type: CounterType},
		{Name: "dup", Type: CounterType},
	})

	assert.Error(mr.Err())
}

func TestMergerAddMetricsOverrideSameType(t *testing.T) {
	var assert = assert.New(t)

	mr := NewMerger().AddMetrics(true, []Metric{
		{Name: "dup", Type: CounterType, Help: "first help"},
		{Name: "dup", Type: CounterType, Help: "second help"},
	})

	assert.NoError(mr.Err())
	assert.Len(mr.Merged(), 1)
}

func TestMergerAddMetricsOverrideTypeMismatch(t *testing.T) {
	var assert = assert.New(t)

	mr := NewMerger().AddMetrics(true, []Metric{
		{Name: "dup", Type: CounterType},
		{Name: "dup", Type: GaugeType},
	})

	assert.Error(mr.Err())
}

func TestMergerAddModules(t *testing.T) {
	var assert = assert.New(t)

	moduleA := func() []Metric { return []Metric{{Name: "a", Type: CounterType}} }
	moduleB := func() []Metric { return []Metric{{Name: "b", Type: GaugeType}} }

	mr := NewMerger().AddModules(false, moduleA, moduleB)

	assert.NoError(mr.Err())
	assert.Len(mr.Merged(), 2)
}

func TestMergerDefaultNamespaceAndSubsystem(t *testing.T) {
	var assert = assert.New(t)

	mr := NewMerger().DefaultNamespace("ns").DefaultSubsystem("sub").
		AddMetrics(false, []Metric{{Name: "test", Type: CounterType}})

	assert.NoError(mr.Err())

	merged, ok := mr.Merged()["ns_sub_test"]
	assert.True(ok)
	assert.Equal("ns", merged.Namespace)
	assert.Equal("sub", merged.Subsystem)
}

func TestMergerEmptyDefaultsFallBackToGlobals(t *testing.T) {
	var assert = assert.New(t)

	mr := NewMerger().DefaultNamespace("").DefaultSubsystem("")

	mr.AddMetrics(false, []Metric{{Name: "test", Type: CounterType}})

	assert.NoError(mr.Err())
	key := prometheus.BuildFQName(DefaultNamespace, DefaultSubsystem, "test")
	_, ok := mr.Merged()[key]
	assert.True(ok)
}
