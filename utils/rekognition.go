package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type LabelDetector struct {
	client *rekognition.Client
}

func NewLabelDetector(cfg aws.Config) *LabelDetector {
	return &LabelDetector{client: rekognition.NewFromConfig(cfg)}
}

// DetectLabels returns the top labels for a base64 data URI image.
func (d *LabelDetector) DetectLabels(ctx context.Context, dataURI string) ([]string, error) {
	_, _, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}
