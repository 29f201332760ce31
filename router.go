package gattpad

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Outcome is the terminal state of a dispatched event.
type Outcome int

const (
	OutcomeUndefined Outcome = iota

	// OutcomeResponded: the request was resolved and answered.
	OutcomeResponded

	// OutcomeRejected: no characteristic or no matching property.
	// Reads and writes-with-response were answered with AttrECodeReqNotSupp.
	OutcomeRejected

	// OutcomeApplied: the event was resolved and applied;
	// it takes no response.
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResponded:
		return "Responded"
	case OutcomeRejected:
		return "Rejected"
	case OutcomeApplied:
		return "Applied"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Router dispatches events from the stack to the characteristics of a Catalog.
// It is meant to be driven by a single goroutine.
type Router struct {
	catalog *Catalog
	subs    *subscribers
}

func NewRouter(c *Catalog) *Router {
	return &Router{
		catalog: c,
		subs:    newSubscribers(),
	}
}

// Catalog returns the routing table.
func (r *Router) Catalog() *Catalog {
	return r.catalog
}

// Dispatch handles a single event. The returned error is non-nil only
// when a response could not be delivered (ErrResponderFailure).
func (r *Router) Dispatch(ctx context.Context, ev Event) (_ Outcome, _err error) {
	logger.Tracef(ctx, "Dispatch(ctx, %T)", ev)
	defer func() { logger.Tracef(ctx, "/Dispatch(ctx, %T): %v", ev, _err) }()

	switch ev := ev.(type) {
	case ReadRequestEvent:
		return r.handleRead(ctx, ev)
	case WriteRequestEvent:
		return r.handleWrite(ctx, ev)
	case SubscriptionEvent:
		return r.handleSubscription(ctx, ev), nil
	case DisconnectEvent:
		n := r.subs.drop(ev.Central)
		logger.Debugf(ctx, "central %s disconnected, dropped %d subscriptions", ev.Central, n)
		return OutcomeApplied, nil
	default:
		logger.Errorf(ctx, "unexpected event type %T", ev)
		return OutcomeRejected, nil
	}
}

func (r *Router) handleRead(ctx context.Context, ev ReadRequestEvent) (Outcome, error) {
	c, ok := r.catalog.Lookup(ev.Service, ev.Characteristic)
	if !ok || !c.props.Has(PropRead) {
		logger.Debugf(ctx, "read %s/%s by %s: not supported", ev.Service, ev.Characteristic, ev.Central)
		return OutcomeRejected, respond(ctx, ev.Responder, ReadResponse{Status: AttrECodeReqNotSupp})
	}

	req := &ReadRequest{
		Request: ev.Request,
		Cap:     MaxAttributeValueLength,
		Offset:  ev.Offset,
	}
	v, status := c.read(ctx, req)
	switch {
	case status == AttrECodeReqNotSupp:
		return OutcomeRejected, respond(ctx, ev.Responder, ReadResponse{Status: status})
	case status != StatusSuccess:
		return OutcomeResponded, respond(ctx, ev.Responder, ReadResponse{Status: status})
	}

	// Reading past the end yields an empty value, not an error.
	if ev.Offset >= len(v) {
		v = []byte{}
	} else if ev.Offset > 0 {
		v = v[ev.Offset:]
	}
	return OutcomeResponded, respond(ctx, ev.Responder, ReadResponse{Status: StatusSuccess, Value: v})
}

func (r *Router) handleWrite(ctx context.Context, ev WriteRequestEvent) (Outcome, error) {
	c, ok := r.catalog.Lookup(ev.Service, ev.Characteristic)

	flag := PropWrite
	if ev.WithoutResponse {
		flag = PropWriteWithoutResponse
	}
	if !ok || !c.props.Has(flag) || c.writeHandler == nil {
		logger.Debugf(ctx, "write %s/%s by %s (without response: %t): not supported", ev.Service, ev.Characteristic, ev.Central, ev.WithoutResponse)
		if ev.WithoutResponse {
			return OutcomeRejected, nil
		}
		return OutcomeRejected, respond(ctx, ev.Responder, WriteResponse{Status: AttrECodeReqNotSupp})
	}

	if ev.Offset != 0 {
		logger.Debugf(ctx, "write %s/%s by %s: offset %d is not supported", ev.Service, ev.Characteristic, ev.Central, ev.Offset)
		if ev.WithoutResponse {
			return OutcomeRejected, nil
		}
		return OutcomeResponded, respond(ctx, ev.Responder, WriteResponse{Status: AttrECodeInvalidOffset})
	}

	status := c.writeHandler.ServeWrite(ctx, ev.Request, ev.Value)
	if ev.WithoutResponse {
		if status != StatusSuccess {
			logger.Debugf(ctx, "write without response %s/%s by %s: %v", ev.Service, ev.Characteristic, ev.Central, status)
		}
		return OutcomeApplied, nil
	}
	return OutcomeResponded, respond(ctx, ev.Responder, WriteResponse{Status: status})
}

func (r *Router) handleSubscription(ctx context.Context, ev SubscriptionEvent) Outcome {
	c, ok := r.catalog.Lookup(ev.Service, ev.Characteristic)
	if !ok || !c.props.CanNotify() {
		logger.Debugf(ctx, "subscription to %s/%s by %s: not supported", ev.Service, ev.Characteristic, ev.Central)
		return OutcomeRejected
	}

	k := charKey{service: ev.Service, char: ev.Characteristic}
	if !ev.Subscribed {
		r.subs.unsubscribe(k, ev.Central)
		logger.Debugf(ctx, "central %s unsubscribed from %s/%s", ev.Central, ev.Service, ev.Characteristic)
		return OutcomeApplied
	}
	indicate := ev.Indicate && c.props.Has(PropIndicate)
	r.subs.subscribe(k, ev.Central, indicate)
	logger.Debugf(ctx, "central %s subscribed to %s/%s (indicate: %t)", ev.Central, ev.Service, ev.Characteristic, indicate)
	return OutcomeApplied
}

// Subscribers returns the centrals subscribed to the characteristic.
func (r *Router) Subscribers(svc, char UUID) []Subscriber {
	return r.subs.list(charKey{service: svc, char: char})
}

// HasSubscribers reports whether any central is subscribed to the characteristic.
func (r *Router) HasSubscribers(svc, char UUID) bool {
	return r.subs.count(charKey{service: svc, char: char}) > 0
}

func respond[T any](ctx context.Context, rsp *Responder[T], v T) error {
	if err := rsp.Respond(v); err != nil {
		logger.Errorf(ctx, "unable to respond: %v", err)
		return err
	}
	return nil
}
