package config

import "time"

// ReminderConfig configures reminder scheduling and local delivery.
// Lead defaults to the one hour announced by the default reminder title.
type ReminderConfig struct {
	Title               string        `env:"DOLIST_REMINDER_TITLE"`
	Lead                time.Duration `env:"DOLIST_REMINDER_LEAD" default:"1h"`
	QueueSize           int           `env:"DOLIST_REMINDER_QUEUE_SIZE"`
	OperationTimeout    time.Duration `env:"DOLIST_REMINDER_OPERATION_TIMEOUT"`
	DeliveriesPerMinute int           `env:"DOLIST_REMINDER_DELIVERIES_PER_MINUTE" default:"30"`
	DeliveryBurst       int           `env:"DOLIST_REMINDER_DELIVERY_BURST" default:"5"`
}

// TickConfig configures the loop that refreshes remaining time.
type TickConfig struct {
	Interval         time.Duration `env:"DOLIST_TICK_INTERVAL" default:"1s"`
	OperationTimeout time.Duration `env:"DOLIST_TICK_OPERATION_TIMEOUT"`
}
