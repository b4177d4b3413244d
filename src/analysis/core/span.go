package core

// -----------------------------------------------------------------------------

// ComputeSpans calculates the stock span for each position: the count of
// consecutive positions ending at i (inclusive) whose price is <= price[i].
// The run is blocked by the first strictly greater predecessor; equal prices
// do not block.
//
// Monotonic index stack, each index pushed and popped at most once: O(n)
// time, O(n) auxiliary space. Reentrant - independent calls share nothing.
func ComputeSpans(prices []float64, maxLength int) ([]int, error) {
	if err := ValidateSeries(prices, maxLength); err != nil {
		return nil, err
	}

	spans := make([]int, len(prices))
	stack := newIndexStack(len(prices))

	for i := range prices {
		for !stack.empty() && prices[stack.peek()] <= prices[i] {
			stack.pop()
		}

		if stack.empty() {
			spans[i] = i + 1
		} else {
			spans[i] = i - stack.peek()
		}

		stack.push(i)
	}

	return spans, nil
}
