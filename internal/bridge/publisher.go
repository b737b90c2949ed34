package bridge

import (
	"context"

	"github.com/park285/detailed-moves/pkg/hostproto"
)

// Sender is the write side of the link.
type Sender interface {
	Send(ctx context.Context, kind hostproto.Kind, payload any) error
}

// Publisher pushes rendered fragments back to the page.
type Publisher struct {
	sender Sender
}

func NewPublisher(s Sender) *Publisher {
	return &Publisher{sender: s}
}

func (p *Publisher) Render(ctx context.Context, target, html string) error {
	return p.sender.Send(ctx, hostproto.KindRender, hostproto.Render{Target: target, HTML: html})
}

func (p *Publisher) Indicator(ctx context.Context, frame hostproto.Indicator) error {
	return p.sender.Send(ctx, hostproto.KindIndicator, frame)
}

// Activator asks the page to jump to a ply.
type Activator struct {
	sender Sender
}

func NewActivator(s Sender) *Activator {
	return &Activator{sender: s}
}

// Press delivers the primary-button press the move list listens for.
func (a *Activator) Press(ctx context.Context, ply int) error {
	return a.sender.Send(ctx, hostproto.KindActivate, hostproto.Activate{Ply: ply, Gesture: hostproto.GestureMouseDown})
}

func (a *Activator) Click(ctx context.Context, ply int) error {
	return a.sender.Send(ctx, hostproto.KindActivate, hostproto.Activate{Ply: ply, Gesture: hostproto.GestureClick})
}
