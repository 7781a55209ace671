package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics emits counters to CloudWatch. All callers treat emission as
// best-effort: a metrics failure is logged, never surfaced to the request.
type Metrics struct {
	CW        CloudWatchAPI
	Namespace string
}

// NewMetrics returns a recorder publishing under the given namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{CW: cw, Namespace: namespace}
}

// Count publishes a single count datum for the named metric.
func (m *Metrics) Count(ctx context.Context, metric string, value float64) error {
	if m == nil || m.CW == nil {
		return nil
	}
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &metric,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := m.CW.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
