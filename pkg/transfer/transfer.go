// Package transfer implements piecewise-linear transfer functions that map
// volume intensity to optical properties.
package transfer

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-exposure-render/pkg/core"
)

// MaxNodes is the capacity of a transfer function
const MaxNodes = 128

// Node is one control point of a transfer function
type Node[T any] struct {
	Position float64
	Value    T
}

// LerpFunc linearly interpolates from a to b by t
type LerpFunc[T any] func(a, b T, t float64) T

// TransferFunction1D is a piecewise-linear function over a sorted node list.
// Nodes are kept ordered by position on insertion; nodes added at an equal
// position keep their insertion order.
type TransferFunction1D[T any] struct {
	nodes    []Node[T]
	lerp     LerpFunc[T]
	rangeMin float64
	rangeMax float64
}

// NewTransferFunction1D creates an empty transfer function
func NewTransferFunction1D[T any](lerp LerpFunc[T]) *TransferFunction1D[T] {
	tf := &TransferFunction1D[T]{lerp: lerp}
	tf.Reset()
	return tf
}

// AddNode inserts a node at its sorted position and widens the active range
func (tf *TransferFunction1D[T]) AddNode(position float64, value T) error {
	if len(tf.nodes) >= MaxNodes {
		return fmt.Errorf("transfer function is full (%d nodes)", MaxNodes)
	}
	if math.IsNaN(position) {
		return fmt.Errorf("invalid node position %v", position)
	}

	i := sort.Search(len(tf.nodes), func(i int) bool {
		return tf.nodes[i].Position > position
	})
	tf.nodes = append(tf.nodes, Node[T]{})
	copy(tf.nodes[i+1:], tf.nodes[i:])
	tf.nodes[i] = Node[T]{Position: position, Value: value}

	tf.rangeMin = min(tf.rangeMin, position)
	tf.rangeMax = max(tf.rangeMax, position)
	return nil
}

// Reset removes every node
func (tf *TransferFunction1D[T]) Reset() {
	tf.nodes = tf.nodes[:0]
	tf.rangeMin = math.Inf(1)
	tf.rangeMax = math.Inf(-1)
}

// Nodes returns a copy of the node list in position order
func (tf *TransferFunction1D[T]) Nodes() []Node[T] {
	out := make([]Node[T], len(tf.nodes))
	copy(out, tf.nodes)
	return out
}

// Len returns the number of nodes
func (tf *TransferFunction1D[T]) Len() int {
	return len(tf.nodes)
}

// Range returns the positions of the first and last nodes. An empty function
// has an empty range (min > max).
func (tf *TransferFunction1D[T]) Range() (float64, float64) {
	return tf.rangeMin, tf.rangeMax
}

// Evaluate returns the interpolated value at position. Positions outside the
// node range clamp to the boundary values; an empty function yields the zero value.
func (tf *TransferFunction1D[T]) Evaluate(position float64) T {
	var zero T
	n := len(tf.nodes)
	if n == 0 {
		return zero
	}

	// At a shared position the later node applies
	if position < tf.nodes[0].Position {
		return tf.nodes[0].Value
	}
	if position >= tf.nodes[n-1].Position {
		return tf.nodes[n-1].Value
	}

	// First node strictly beyond position, so a.Position <= position < b.Position
	hi := sort.Search(n, func(i int) bool {
		return tf.nodes[i].Position > position
	})
	a, b := tf.nodes[hi-1], tf.nodes[hi]
	return tf.lerp(a.Value, b.Value, (position-a.Position)/(b.Position-a.Position))
}

// Scalar maps intensity to a single value such as opacity or glossiness
type Scalar = TransferFunction1D[float64]

// Color maps intensity to an XYZ color
type Color = TransferFunction1D[core.ColorXYZ]

// NewScalar creates an empty scalar transfer function
func NewScalar() *Scalar {
	return NewTransferFunction1D(core.Lerp)
}

// NewColor creates an empty color transfer function
func NewColor() *Color {
	return NewTransferFunction1D(func(a, b core.ColorXYZ, t float64) core.ColorXYZ {
		return a.Lerp(b, t)
	})
}

// NewScalarFromNodes builds a scalar function from (position, value) pairs
func NewScalarFromNodes(nodes ...Node[float64]) (*Scalar, error) {
	tf := NewScalar()
	for _, node := range nodes {
		if err := tf.AddNode(node.Position, node.Value); err != nil {
			return nil, err
		}
	}
	return tf, nil
}

// ConstantColor returns a color function with a single node
func ConstantColor(c core.ColorXYZ) *Color {
	tf := NewColor()
	_ = tf.AddNode(0, c)
	return tf
}

// ConstantScalar returns a scalar function with a single node
func ConstantScalar(v float64) *Scalar {
	tf := NewScalar()
	_ = tf.AddNode(0, v)
	return tf
}

// AddRGBNode converts a linear RGB color to XYZ and inserts it
func AddRGBNode(tf *Color, position float64, rgb core.ColorRGB) error {
	return tf.AddNode(position, core.XYZFromRGB(rgb))
}
