package services

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// PushService delivers reminder payloads to a device endpoint via SNS.
// Delivery beyond the Publish call is the platform's problem.
type PushService struct {
	sns *awssns.Client
}

func NewPushService() (*PushService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-northeast-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{sns: awssns.NewFromConfig(cfg)}, nil
}

func (p *PushService) PushToEndpoint(endpointArn, title, body string, data map[string]string) error {
	// With MessageStructure=json SNS wants each platform payload as a
	// JSON-encoded string, not a nested object.
	gcm, _ := json.Marshal(map[string]any{
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
		"data": data,
	})
	raw, _ := json.Marshal(map[string]string{
		"default": body,
		"GCM":     string(gcm),
	})
	_, err := p.sns.Publish(context.TODO(), &awssns.PublishInput{
		MessageStructure: aws.String("json"),
		Message:          aws.String(string(raw)),
		TargetArn:        aws.String(endpointArn),
	})
	return err
}
