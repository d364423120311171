package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used by Metrics
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes pipeline outcome counters to CloudWatch. Emission is
// best effort: a failed publish is logged and never fails the caller.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	enabled   bool
	logger    *zap.Logger
}

// NewMetrics creates a metrics recorder
func NewMetrics(client CloudWatchAPI, namespace string, enabled bool, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		enabled:   enabled,
		logger:    logger,
	}
}

// CountIngestion records one pipeline completion with its outcome
// ("persisted", "degraded", or a failed stage name).
func (m *Metrics) CountIngestion(ctx context.Context, outcome string) {
	m.count(ctx, "IngestionCompleted", outcome)
}

func (m *Metrics) count(ctx context.Context, name, outcome string) {
	if m == nil || !m.enabled {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: []types.Dimension{
					{
						Name:  aws.String("Outcome"),
						Value: aws.String(outcome),
					},
				},
			},
		},
	})
	if err != nil {
		m.logger.Warn("Failed to publish metric",
			zap.String("metric", name),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}
