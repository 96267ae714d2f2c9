package session

// Notifier receives failed exchanges so a front end can tell the user.
type Notifier interface {
	NotifyFailure(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// NotifyFailure implements Notifier.
func (f NotifierFunc) NotifyFailure(err error) {
	f(err)
}

type nopNotifier struct{}

func (nopNotifier) NotifyFailure(error) {}
