// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Thermoquad/calorimeter/pkg/nevoton"
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
)

// openGateway connects the transport the flags select. Exactly one of
// --topic and --device picks MQTT or Modbus RTU; the returned identity
// names the device in scan headers.
func openGateway() (opentherm.Transport, string, error) {
	if (mqttTopic == "") == (serialDevice == "") {
		return nil, "", &opentherm.ExchangeError{
			Class:   opentherm.ConfigError,
			Message: "either --topic or --device must be specified",
		}
	}

	if mqttTopic != "" {
		password, err := gatewayPassword()
		if err != nil {
			return nil, "", err
		}
		transport, err := nevoton.DialMQTT(nevoton.MQTTConfig{
			Host:     mqttHost,
			Port:     mqttPort,
			Username: mqttUsername,
			Password: password,
			Device:   mqttTopic,
		})
		if err != nil {
			return nil, "", err
		}
		if verbose {
			fmt.Printf("Opentherm device '%s' found in mqtt\n", mqttTopic)
		}
		return transport, mqttTopic, nil
	}

	gw, err := nevoton.DialSerial(nevoton.SerialConfig{
		Device:  serialDevice,
		SlaveID: uint8(slaveAddress),
	})
	if err != nil {
		return nil, "", err
	}
	if verbose {
		fmt.Printf("Opentherm device '%s' fw %s connected through %s (%d)\n",
			gw.Module(), gw.Firmware(), serialDevice, slaveAddress)
	}
	return gw, serialDevice, nil
}

// gatewayPassword resolves the MQTT password: the flag wins, then the
// CALORIMETER_PASSWORD environment variable, then an interactive
// prompt when a username needs one.
func gatewayPassword() (string, error) {
	if mqttPassword != "" {
		return mqttPassword, nil
	}
	if pw := os.Getenv("CALORIMETER_PASSWORD"); pw != "" {
		return pw, nil
	}
	if mqttUsername == "" {
		return "", nil
	}
	return promptPassword()
}

// transportKind names the selected transport in capture records
func transportKind() string {
	if mqttTopic != "" {
		return "mqtt"
	}
	return "modbus"
}

// retryPolicy maps the retry flags onto the session policy
func retryPolicy() opentherm.RetryPolicy {
	if !retryOn {
		return opentherm.RetryPolicy{}
	}
	return opentherm.RetryPolicy{Limit: opentherm.DefaultRetryLimit, Delay: retryDelay}
}

// gateway bundles a connected session with its cleanup
type gateway struct {
	session *opentherm.Session
	device  string
	close   func()
}

// openSession opens the selected transport, wraps it with the capture
// recorder when asked, and builds the session. The close func releases
// the transport and the capture file.
func openSession() (*gateway, error) {
	transport, device, err := openGateway()
	if err != nil {
		return nil, err
	}

	closers := []func(){func() { transport.Close() }}
	wired := transport
	if capturePath != "" {
		recorder, err := opentherm.NewRecorder(capturePath, transportKind())
		if err != nil {
			transport.Close()
			return nil, err
		}
		closers = append(closers, func() { recorder.Close() })
		wired = opentherm.WithCapture(transport, recorder)
	}

	slog.Debug("gateway connected", "device", device, "transport", transportKind())
	return &gateway{
		session: opentherm.NewSession(wired, retryPolicy()),
		device:  device,
		close: func() {
			for _, c := range closers {
				c()
			}
		},
	}, nil
}

// withGateway runs fn with a connected interpreter. The transport and
// the capture file close on every exit path; SIGINT cancels the
// context so a running exchange unwinds first.
func withGateway(fn func(ctx context.Context, it *opentherm.Interpreter) error) error {
	gw, err := openSession()
	if err != nil {
		return err
	}
	defer gw.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	it := opentherm.NewInterpreter(gw.session, opentherm.NewRegistry())
	it.Verbose = verbose
	it.Device = gw.device
	return fn(ctx, it)
}

// runOps executes parsed operations over the gateway, reporting the
// outcome the way the original tool did: per-op failures print as they
// happen, the last failure repeats in the closing error line, and the
// run keeps going after non-fatal failures.
func runOps(ops []opentherm.CommandOp) error {
	return withGateway(func(ctx context.Context, it *opentherm.Interpreter) error {
		failed, last := it.Execute(ctx, ops)
		if failed > 0 {
			fmt.Fprintln(os.Stderr, "Error!", last)
			return errOpFailed
		}
		return nil
	})
}
