package failure

// FailureOr is a sum over {Success(value), Failure(exception)} for results
// that do not need exclusive-ownership handoff of the success value (it may
// be read repeatedly, e.g. a borrowed View).
type FailureOr[T any] struct {
	value T
	exc   *Exception
	ok    bool
}

// Success wraps a successful value.
func Success[T any](v T) FailureOr[T] {
	return FailureOr[T]{value: v, ok: true}
}

// Fail wraps a failure.
func Fail[T any](exc *Exception) FailureOr[T] {
	return FailureOr[T]{exc: exc, ok: false}
}

func (f FailureOr[T]) Failed() bool { return !f.ok }

// Exception returns the carried failure, or nil on success.
func (f FailureOr[T]) Exception() *Exception { return f.exc }

// Value returns the success value. It is the zero value of T on failure;
// callers must check Failed() first.
func (f FailureOr[T]) Value() T { return f.value }

// SucceedOrDie asserts f succeeded and returns its value; used in contexts
// the caller knows cannot fail. It panics otherwise.
func SucceedOrDie[T any](f FailureOr[T]) T {
	if f.Failed() {
		panic(f.Exception())
	}
	return f.value
}

// FailureOrOwned is FailureOr's exclusive-ownership variant: the success
// value may be read via Release() exactly once. Reading it again panics,
// modeling the move-only handoff the C++ source expresses with
// unique_ptr<T>.
type FailureOrOwned[T any] struct {
	value    T
	exc      *Exception
	ok       bool
	released bool
}

func SuccessOwned[T any](v T) FailureOrOwned[T] {
	return FailureOrOwned[T]{value: v, ok: true}
}

func FailOwned[T any](exc *Exception) FailureOrOwned[T] {
	return FailureOrOwned[T]{exc: exc, ok: false}
}

func (f FailureOrOwned[T]) Failed() bool { return !f.ok }

func (f FailureOrOwned[T]) Exception() *Exception { return f.exc }

// Release transfers ownership of the success value to the caller. It
// panics if f failed, or if the value was already released: both are
// programming errors, not part of the normal error channel.
func (f *FailureOrOwned[T]) Release() T {
	if !f.ok {
		panic(f.exc)
	}
	if f.released {
		panic("failure: FailureOrOwned value already released")
	}
	f.released = true
	return f.value
}

// PropagateOnFailure is PROPAGATE_ON_FAILURE(expr): if f failed, it returns
// the carried exception for the caller to return immediately; otherwise it
// returns nil and the caller proceeds to Release().
//
//	bound := child.Bind(schema)
//	if exc := failure.PropagateOnFailure(bound); exc != nil {
//	    return failure.FailOwned[*Foo](exc)
//	}
//	result := bound.Release()
func PropagateOnFailure[T any](f FailureOrOwned[T]) *Exception {
	if f.Failed() {
		return f.Exception()
	}
	return nil
}

// Propagate is PropagateOnFailure for the non-owned FailureOr.
func Propagate[T any](f FailureOr[T]) *Exception {
	if f.Failed() {
		return f.Exception()
	}
	return nil
}
