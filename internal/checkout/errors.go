package checkout

import "errors"

var (
	ErrMissingFields = errors.New("name, phone and address are required")
	ErrSelectProduct = errors.New("no product selected")
	ErrSelectColor   = errors.New("no color selected")
	ErrSelectSize    = errors.New("no size selected")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrUnknownZone   = errors.New("unknown shipping zone")
	ErrLineNotFound  = errors.New("cart line not found")
	ErrSubmitting    = errors.New("order submission already in progress")
	ErrOrderFailed   = errors.New("order placement failed")
)

// Customer-facing messages shown as toasts.
const (
	MsgMissingFields = "সব তথ্য পূরণ করুন"
	MsgSelectProduct = "প্রোডাক্ট সিলেক্ট করুন"
	MsgSelectColor   = "কালার সিলেক্ট করুন"
	MsgSelectSize    = "সাইজ সিলেক্ট করুন"
	MsgEmptyCart     = "কার্ট খালি"
	MsgInvalidPhone  = "সঠিক মোবাইল নম্বর দিন"
	MsgOrderFailed   = "অর্ডার করতে সমস্যা হয়েছে। আবার চেষ্টা করুন।"
	MsgSubmitting    = "অর্ডার প্রসেস হচ্ছে..."
)

var messages = map[error]string{
	ErrMissingFields: MsgMissingFields,
	ErrSelectProduct: MsgSelectProduct,
	ErrSelectColor:   MsgSelectColor,
	ErrSelectSize:    MsgSelectSize,
	ErrEmptyCart:     MsgEmptyCart,
	ErrInvalidPhone:  MsgInvalidPhone,
	ErrSubmitting:    MsgSubmitting,
	ErrOrderFailed:   MsgOrderFailed,
}

// ValidationError is a local, non-fatal rejection of a customer action.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	return &ValidationError{Err: err, Message: messages[err]}
}

// OrderError reports a failed submission. Message is safe to show to the
// customer; Cause keeps the underlying transport error, if any.
type OrderError struct {
	Message string
	Code    string
	Cause   error
}

func (e *OrderError) Error() string {
	if e.Cause != nil {
		return "place order: " + e.Cause.Error()
	}
	return "place order: " + e.Message
}

func (e *OrderError) Unwrap() error { return e.Cause }

func (e *OrderError) Is(target error) bool { return target == ErrOrderFailed }

// Message returns the toast text for err, or the generic order failure text.
func Message(err error) string {
	var v *ValidationError
	if errors.As(err, &v) && v.Message != "" {
		return v.Message
	}
	var o *OrderError
	if errors.As(err, &o) && o.Message != "" {
		return o.Message
	}
	return MsgOrderFailed
}
