package trigger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"checkmate/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const (
	connectTimeout    = 30 * time.Second
	subscribeTimeout  = 10 * time.Second
	disconnectQuiesce = 250 // milliseconds
)

// MQTTTrigger runs a consensus pass whenever a message arrives on the
// configured topic. Messages that arrive while a pass is queued are
// coalesced into it; the payload is ignored.
type MQTTTrigger struct {
	cfg    config.MQTTConfig
	engine Ticker
	log    zerolog.Logger
	now    func() time.Time

	client  mqtt.Client
	pending chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewMQTTTrigger creates a message-driven trigger
func NewMQTTTrigger(cfg config.MQTTConfig, engine Ticker, log zerolog.Logger) *MQTTTrigger {
	return &MQTTTrigger{
		cfg:     cfg,
		engine:  engine,
		log:     log.With().Str("component", "MQTTTrigger").Str("topic", cfg.Topic).Logger(),
		now:     time.Now,
		pending: make(chan struct{}, 1),
	}
}

// Start connects to the broker, subscribes to the topic and starts the
// worker that runs the passes. The subscription is renewed on reconnect.
func (t *MQTTTrigger) Start(ctx context.Context) error {
	if t.cfg.Broker == "" {
		return fmt.Errorf("mqtt broker not configured")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(t.cfg.Broker)
	opts.SetClientID(t.cfg.ClientID)
	opts.SetUsername(t.cfg.Username)
	opts.SetPassword(t.cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(t.onConnect)
	opts.SetConnectionLostHandler(t.onConnectionLost)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	t.mu.Lock()
	t.client = client
	t.mu.Unlock()

	t.startWorker(ctx)
	return nil
}

// Stop unsubscribes, disconnects and waits for the worker to exit
func (t *MQTTTrigger) Stop() {
	t.mu.Lock()
	client := t.client
	t.client = nil
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if client != nil && client.IsConnected() {
		client.Unsubscribe(t.cfg.Topic).WaitTimeout(subscribeTimeout)
		client.Disconnect(disconnectQuiesce)
	}
	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
}

func (t *MQTTTrigger) startWorker(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.pending:
				if _, err := t.engine.Tick(ctx, t.now()); err != nil && ctx.Err() == nil {
					t.log.Error().Err(err).Msg("consensus pass failed")
				}
			}
		}
	}()
}

func (t *MQTTTrigger) onConnect(client mqtt.Client) {
	t.log.Info().Str("broker", t.cfg.Broker).Msg("connected to broker")

	token := client.Subscribe(t.cfg.Topic, t.cfg.QoS, t.handleMessage)
	if !token.WaitTimeout(subscribeTimeout) {
		t.log.Error().Msg("subscribe timeout")
		return
	}
	if err := token.Error(); err != nil {
		t.log.Error().Err(err).Msg("subscribe failed")
	}
}

func (t *MQTTTrigger) onConnectionLost(_ mqtt.Client, err error) {
	t.log.Warn().Err(err).Msg("connection to broker lost")
}

// handleMessage runs on the client's router goroutine and must not block.
func (t *MQTTTrigger) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	select {
	case t.pending <- struct{}{}:
		t.log.Debug().Uint16("message_id", msg.MessageID()).Msg("consensus pass requested")
	default:
		t.log.Debug().Uint16("message_id", msg.MessageID()).Msg("consensus pass already queued")
	}
}
