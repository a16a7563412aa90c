package cmd

type Config struct {
	HTTPPort               string
	RedisAddr              string
	RedisPassword          string
	AWSRegion              string
	OrderBatchingQueueURL  string
	DeliveryQueueURL       string
	SimulationEnabled      bool
	SimulationPartnerCount int
}
