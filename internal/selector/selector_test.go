package selector

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inevitable-commit/wikis/internal/lookup"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

var titles = []string{"Terraria", "Terraria (soundtrack)", "Terrarium"}

func TestFixed(t *testing.T) {
	ctx := context.Background()
	for c := 1; c <= len(titles); c++ {
		idx, err := Fixed{Choice: c}.Select(ctx, titles)
		require.NoError(t, err)
		assert.Equal(t, c-1, idx)
	}

	for _, c := range []int{0, -1, 4} {
		_, err := Fixed{Choice: c}.Select(ctx, titles)
		require.Error(t, err, c)
		assert.True(t, errors.Is(err, lookup.ErrIndexOutOfRange))
		assert.Equal(t, wikipedia.KindInput, wikipedia.KindOf(err))
	}
}

func terminal(input string, showList bool) (Terminal, *strings.Builder) {
	out := &strings.Builder{}
	return Terminal{In: bufio.NewReader(strings.NewReader(input)), Out: out, ShowList: showList}, out
}

func TestTerminal_EmptyLineSelectsFirst(t *testing.T) {
	for _, input := range []string{"\n", "   \n", ""} {
		sel, out := terminal(input, true)
		idx, err := sel.Select(context.Background(), titles)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assert.Equal(t, " 1: Terraria\n 2: Terraria (soundtrack)\n 3: Terrarium\nSelect a topic (Default: \"Terraria\"): ", out.String())
	}
}

func TestTerminal_Choice(t *testing.T) {
	sel, out := terminal("2\n", false)
	idx, err := sel.Select(context.Background(), titles)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.NotContains(t, out.String(), " 1: ")

	sel, _ = terminal("3", false)
	idx, err = sel.Select(context.Background(), titles)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestTerminal_Invalid(t *testing.T) {
	for _, input := range []string{"0\n", "4\n", "two\n", "-1\n"} {
		sel, _ := terminal(input, false)
		_, err := sel.Select(context.Background(), titles)
		require.Error(t, err, input)
		assert.Equal(t, wikipedia.KindInput, wikipedia.KindOf(err), input)
	}
}

func TestTerminal_SharedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("3\n1\n"))
	out := &strings.Builder{}

	first, err := Terminal{In: in, Out: out}.Select(context.Background(), titles)
	require.NoError(t, err)
	second, err := Terminal{In: in, Out: out}.Select(context.Background(), titles)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, []int{first, second})
}

func TestPicker_MatchesEchoedLine(t *testing.T) {
	var gotName string
	var gotArgs []string
	var gotStdin string
	p := Picker{
		Command: []string{"rofi", "-dmenu"},
		Run: func(_ context.Context, name string, args []string, stdin []byte) ([]byte, error) {
			gotName, gotArgs, gotStdin = name, args, string(stdin)
			return []byte("Terraria (soundtrack)\n"), nil
		},
	}

	idx, err := p.Select(context.Background(), titles)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "rofi", gotName)
	assert.Equal(t, []string{"-dmenu"}, gotArgs)
	assert.Equal(t, "Terraria\nTerraria (soundtrack)\nTerrarium\n", gotStdin)
}

func TestPicker_DefaultCommand(t *testing.T) {
	var got []string
	p := Picker{Run: func(_ context.Context, name string, args []string, _ []byte) ([]byte, error) {
		got = append([]string{name}, args...)
		return []byte("Terraria"), nil
	}}

	idx, err := p.Select(context.Background(), titles)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, DefaultPickerCommand, got)
}

func TestPicker_UnknownLine(t *testing.T) {
	p := Picker{Run: func(context.Context, string, []string, []byte) ([]byte, error) {
		return []byte("Something else\n"), nil
	}}

	_, err := p.Select(context.Background(), titles)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSelection))
	assert.Equal(t, wikipedia.KindInput, wikipedia.KindOf(err))
}

func TestPicker_Dismissed(t *testing.T) {
	p := Picker{Run: func(context.Context, string, []string, []byte) ([]byte, error) {
		return nil, &exec.ExitError{}
	}}

	_, err := p.Select(context.Background(), titles)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSelection))
}

func TestPicker_MissingBinary(t *testing.T) {
	p := Picker{Command: []string{"definitely-not-a-real-menu-binary"}}

	_, err := p.Select(context.Background(), titles)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSelection))
	assert.Equal(t, wikipedia.KindUnknown, wikipedia.KindOf(err))
}
