package analyticord

// RegisterEvent adds a counter for name. Registering an existing name
// returns the existing counter.
func (c *Client) RegisterEvent(name string) (*EventCounter, error) {
	return c.events.Register(name)
}

// Event returns the counter registered under name.
func (c *Client) Event(name string) (*EventCounter, error) {
	ec, ok := c.events.Get(name)
	if !ok {
		return nil, &ConfigError{Op: "event " + name, Err: ErrEventNotRegistered}
	}
	return ec, nil
}

// Increment counts one occurrence of a registered event.
func (c *Client) Increment(name string) error {
	ec, err := c.Event(name)
	if err != nil {
		return err
	}
	ec.Increment()
	return nil
}

// IncrementMessages counts one inbound message. It has the shape of a
// host-framework listener and can be registered as one directly.
func (c *Client) IncrementMessages(...any) {
	if ec, ok := c.events.Get(EventMessages); ok {
		ec.Increment()
	}
}

// Events returns the registered event names in sorted order.
func (c *Client) Events() []string {
	return c.events.Names()
}
