package stack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/elupus/media-stack-core/internal/device"
)

// SelectSource switches the whole stack to the source with the given
// qualified label.
//
// The matching node's chain is replayed in root-to-target order: every
// intermediate device is powered on and switched to the correct input
// before the next hop is addressed. Hops already in the desired state are
// skipped, so re-selecting the current source issues no commands.
//
// Returns ErrSourceNotFound (before any command is issued) when no resolved
// source matches the label. A command failure mid-chain aborts the switch;
// already-issued hops are not rolled back.
func (p *Player) SelectSource(ctx context.Context, label string) error {
	p.mu.Lock()
	var target *SourceInfo
	for _, node := range p.nodes {
		if node.Label() == label {
			target = node
			break
		}
	}
	p.mu.Unlock()

	if target == nil {
		return fmt.Errorf("%w: %q", ErrSourceNotFound, label)
	}

	return p.switchChain(ctx, target)
}

// PlayMedia routes the stack to a child device and forwards a play request
// to it natively.
//
// The content id carries a "<deviceID>:" prefix from a previous browse;
// everything after the first colon is the device's own content id. The
// chain to the device is switched first (as in SelectSource), then the
// play-media command is issued for the device to execute autonomously.
func (p *Player) PlayMedia(ctx context.Context, contentType, contentID string) error {
	deviceID, subID, _ := strings.Cut(contentID, ":")

	p.mu.Lock()
	var target *SourceInfo
	for _, node := range p.nodes {
		if node.DeviceID == deviceID {
			target = node
			break
		}
	}
	p.mu.Unlock()

	if target == nil {
		return fmt.Errorf("%w: %q", ErrTargetNotFound, deviceID)
	}

	if err := p.switchChain(ctx, target); err != nil {
		return err
	}

	return p.commander.Call(ctx, deviceID, device.CommandPlayMedia, device.Params{
		device.ParamContentType: contentType,
		device.ParamContentID:   subID,
	})
}

// TurnOff powers off every device in the wiring map.
//
// Unlike chain switching, the targets are independent, so the commands fan
// out concurrently; all are awaited and failures are joined.
func (p *Player) TurnOff(ctx context.Context) error {
	devices := p.wiring.Devices()
	errs := make([]error, len(devices))

	var wg sync.WaitGroup
	for i, id := range devices {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			if err := p.commander.Call(ctx, id, device.CommandTurnOff, nil); err != nil {
				errs[i] = fmt.Errorf("turning off %s: %w", id, err)
			}
		}(i, id)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// switchChain replays the chain from the root down to target, one hop at a
// time. Strictly sequential: each hop's command must land before the next
// hop's device state is trustworthy.
func (p *Player) switchChain(ctx context.Context, target *SourceInfo) error {
	for _, hop := range target.Chain() {
		if err := p.switchHop(ctx, hop); err != nil {
			return fmt.Errorf("switching %s to %q: %w", hop.DeviceID, hop.Source, err)
		}
	}
	return nil
}

// switchHop brings one device into the state its chain position requires:
// powered on, with the hop's source selected. Live state is re-read so
// devices already in the right state receive no commands.
func (p *Player) switchHop(ctx context.Context, hop *SourceInfo) error {
	snap, ok := p.states.State(hop.DeviceID)
	if !ok {
		return device.ErrDeviceNotFound
	}

	if snap.Status.IsOff() {
		if err := p.commander.Call(ctx, hop.DeviceID, device.CommandTurnOn, nil); err != nil {
			return err
		}
	}

	if hop.Source != "" && snap.Source != hop.Source {
		err := p.commander.Call(ctx, hop.DeviceID, device.CommandSelectSource, device.Params{
			device.ParamSource: hop.Source,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
