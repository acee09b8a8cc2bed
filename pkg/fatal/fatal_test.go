package fatal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/canclock/pkg/irq"
)

type recordMasker struct {
	disabled []irq.Source
	restored int
}

func (m *recordMasker) Disable(src irq.Source) irq.State {
	m.disabled = append(m.disabled, src)
	return irq.State{}
}

func (m *recordMasker) Restore(irq.State) { m.restored++ }

func TestAtRecordsCaller(t *testing.T) {
	err := At(CodeQueueParam)
	require.Equal(t, "fatal_test.go", err.File)
	require.NotZero(t, err.Line)
	require.Equal(t, CodeQueueParam, err.Code)
	require.Contains(t, err.Error(), "queue parameter")
}

func TestRaisePanicsWithError(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*Error)
		require.True(t, ok)
		require.Equal(t, CodeTaskMissing, err.Code)
		require.Equal(t, "fatal_test.go", err.File)
	}()
	Raise(CodeTaskMissing)
}

func TestDeadlineCode(t *testing.T) {
	require.Equal(t, Code(0x43), DeadlineCode(3))
	require.Equal(t, "deadline overrun task 3", DeadlineCode(3).String())
	require.Equal(t, "code 0x20", Code(0x20).String())
}

func TestHalterFirstErrorWins(t *testing.T) {
	m := &recordMasker{}
	var hooked []Code
	h := NewHalter(m).OnHalt(func(err *Error) { hooked = append(hooked, err.Code) })
	require.Nil(t, h.Err())

	h.Halt(At(CodePeripheralInit))
	h.Halt(At(CodeHardFault))

	select {
	case <-h.Halted():
	default:
		t.Fatal("not halted")
	}
	require.Equal(t, CodePeripheralInit, h.Err().Code)
	require.Equal(t, []Code{CodePeripheralInit}, hooked)
	require.Equal(t, []irq.Source{irq.AllSources}, m.disabled)
	require.Zero(t, m.restored)
}

func TestHalterNilError(t *testing.T) {
	h := NewHalter(&recordMasker{})
	h.Halt(nil)
	require.Equal(t, CodeUnknown, h.Err().Code)
}
