package metrics

// Nop discards everything.
type Nop struct{}

func (Nop) RegimeStarted(string)            {}
func (Nop) RegimeStopped(string, string)    {}
func (Nop) NotificationSent(string, string) {}
func (Nop) Polled(string)                   {}
func (Nop) SetActive(string)                {}
