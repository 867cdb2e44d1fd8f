package database

// Chain is the ordered, append only list of blocks, starting at genesis.
// It is not safe for concurrent use, the owner serializes access.
type Chain struct {
	blocks []Block
}

// FromExisting constructs a chain from blocks already known to be linked.
func FromExisting(blocks []Block) (*Chain, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyChain
	}

	c := Chain{
		blocks: make([]Block, len(blocks)),
	}
	for i, b := range blocks {
		c.blocks[i] = b.clone()
	}

	return &c, nil
}

// Head returns a copy of the last block.
func (c *Chain) Head() Block {
	return c.blocks[len(c.blocks)-1].clone()
}

// GrandparentOfHead returns a copy of the block before the head, or false
// when the chain only holds genesis.
func (c *Chain) GrandparentOfHead() (Block, bool) {
	if len(c.blocks) < 2 {
		return Block{}, false
	}

	return c.blocks[len(c.blocks)-2].clone(), true
}

// AddBlock appends the block. The caller is responsible for validating the
// block links to the current head.
func (c *Chain) AddBlock(b Block) {
	c.blocks = append(c.blocks, b.clone())
}

// Len returns the number of blocks in the chain.
func (c *Chain) Len() int {
	return len(c.blocks)
}

// Block returns a copy of the block with the specified number.
func (c *Chain) Block(num uint64) (Block, bool) {
	if num >= uint64(len(c.blocks)) {
		return Block{}, false
	}

	return c.blocks[num].clone(), true
}

// Blocks returns copies of the blocks in the range [from, to]. Values past
// the head are clamped.
func (c *Chain) Blocks(from uint64, to uint64) []Block {
	last := uint64(len(c.blocks) - 1)
	if to > last {
		to = last
	}

	if from > to {
		return nil
	}

	out := make([]Block, 0, to-from+1)
	for _, b := range c.blocks[from : to+1] {
		out = append(out, b.clone())
	}

	return out
}
