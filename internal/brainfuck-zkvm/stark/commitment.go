package stark

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
)

// CommitmentTree is one committed tree of trace columns: the column
// evaluations, their log-sizes, and the Merkle tree over per-column
// Tip5 digests.
type CommitmentTree struct {
	// Columns holds the committed column evaluations
	Columns [][]field.Element

	// LogSizes holds the binary logarithm of each column's length
	LogSizes []uint32

	// Tree is the Merkle tree over the column digests
	Tree *merkle.MerkleTree

	// Root is the tree root that was mixed into the transcript
	Root hash.Digest
}

// CommitmentScheme is the prover-side commitment session. Trees are
// committed in protocol order (preprocessed, main, interaction), each
// root bound into the Fiat-Shamir channel as it is produced.
type CommitmentScheme struct {
	trees []*CommitmentTree
}

// NewCommitmentScheme creates an empty prover commitment session
func NewCommitmentScheme() *CommitmentScheme {
	return &CommitmentScheme{trees: make([]*CommitmentTree, 0, NumTrees)}
}

// TreeBuilder stages the columns of the next tree before committing
type TreeBuilder struct {
	scheme  *CommitmentScheme
	columns [][]field.Element
}

// TreeBuilder starts staging a new commitment tree
func (cs *CommitmentScheme) TreeBuilder() *TreeBuilder {
	return &TreeBuilder{scheme: cs, columns: make([][]field.Element, 0)}
}

// ExtendEvals appends column evaluations to the staged tree. Columns
// are committed in the order they are appended, so callers must append
// components in registry order.
func (tb *TreeBuilder) ExtendEvals(columns [][]field.Element) {
	tb.columns = append(tb.columns, columns...)
}

// Commit builds the Merkle tree over the staged columns and mixes its
// root into the channel. Every column length must be a power of two.
func (tb *TreeBuilder) Commit(channel *Channel) (hash.Digest, error) {
	if len(tb.columns) == 0 {
		return hash.Digest{}, fmt.Errorf("cannot commit an empty tree")
	}

	leaves, logSizes, err := columnDigests(tb.columns)
	if err != nil {
		return hash.Digest{}, err
	}

	tree, err := merkle.New(leaves)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("failed to build commitment tree: %w", err)
	}

	root := tree.Root()
	channel.MixDigest(root)

	tb.scheme.trees = append(tb.scheme.trees, &CommitmentTree{
		Columns:  tb.columns,
		LogSizes: logSizes,
		Tree:     tree,
		Root:     root,
	})

	return root, nil
}

// columnDigests hashes every column into a Merkle leaf. The tree wants
// a power-of-two leaf count, so the digest list is padded with zero
// digests past the last column.
func columnDigests(columns [][]field.Element) ([]hash.Digest, []uint32, error) {
	logSizes := make([]uint32, len(columns))
	leaves := make([]hash.Digest, utils.NextPowerOfTwo(len(columns)))
	for i, column := range columns {
		logSize, ok := utils.Log2(len(column))
		if !ok {
			return nil, nil, fmt.Errorf("column %d length %d is not a power of 2", i, len(column))
		}
		logSizes[i] = logSize
		leaves[i] = hash.HashVarlen(column)
	}
	return leaves, logSizes, nil
}

// ComputeRoot returns the commitment root of the given columns without
// opening a commitment session. Verifiers use it to derive the root of
// a tree whose content is public instead of trusting the proof.
func ComputeRoot(columns [][]field.Element) (hash.Digest, error) {
	if len(columns) == 0 {
		return hash.Digest{}, fmt.Errorf("cannot commit an empty tree")
	}

	leaves, _, err := columnDigests(columns)
	if err != nil {
		return hash.Digest{}, err
	}
	tree, err := merkle.New(leaves)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("failed to build commitment tree: %w", err)
	}
	return tree.Root(), nil
}

// NumTrees returns the number of committed trees so far
func (cs *CommitmentScheme) NumTrees() int {
	return len(cs.trees)
}

// Tree returns the committed tree at the given index
func (cs *CommitmentScheme) Tree(idx int) (*CommitmentTree, error) {
	if idx < 0 || idx >= len(cs.trees) {
		return nil, fmt.Errorf("tree index %d out of range [0, %d)", idx, len(cs.trees))
	}
	return cs.trees[idx], nil
}

// Roots returns the roots of all committed trees in protocol order
func (cs *CommitmentScheme) Roots() []hash.Digest {
	roots := make([]hash.Digest, len(cs.trees))
	for i, tree := range cs.trees {
		roots[i] = tree.Root
	}
	return roots
}

// TreeLogSizes returns the per-tree column log-sizes in protocol order
func (cs *CommitmentScheme) TreeLogSizes() [][]uint32 {
	sizes := make([][]uint32, len(cs.trees))
	for i, tree := range cs.trees {
		sizes[i] = append([]uint32(nil), tree.LogSizes...)
	}
	return sizes
}

// verifierTree is one registered commitment on the verifying side
type verifierTree struct {
	root     hash.Digest
	declared []uint32
}

// CommitmentSchemeVerifier is the verifier-side commitment session: it
// replays the prover's root mixes against the verifier's own channel
// and records the declared column log-sizes for the structure check.
type CommitmentSchemeVerifier struct {
	trees []verifierTree
}

// NewCommitmentSchemeVerifier creates an empty verifier commitment session
func NewCommitmentSchemeVerifier() *CommitmentSchemeVerifier {
	return &CommitmentSchemeVerifier{trees: make([]verifierTree, 0, NumTrees)}
}

// Commit registers a received tree root with the column log-sizes the
// claim declares for that tree, and mixes the root into the channel
// exactly as the prover did. An empty declared list means the tree's
// shape is not pinned by the claim.
func (v *CommitmentSchemeVerifier) Commit(root hash.Digest, declared []uint32, channel *Channel) {
	channel.MixDigest(root)
	v.trees = append(v.trees, verifierTree{
		root:     root,
		declared: append([]uint32(nil), declared...),
	})
}

// NumTrees returns the number of registered trees so far
func (v *CommitmentSchemeVerifier) NumTrees() int {
	return len(v.trees)
}

// CheckShape compares the proof's recorded per-tree column log-sizes
// against the log-sizes declared at registration time. Trees registered
// with an empty declared list are skipped.
func (v *CommitmentSchemeVerifier) CheckShape(proofSizes [][]uint32) error {
	if len(proofSizes) != len(v.trees) {
		return NewVerificationError(InvalidStructure,
			"proof carries %d trees, expected %d", len(proofSizes), len(v.trees))
	}

	for i, tree := range v.trees {
		if len(tree.declared) == 0 {
			continue
		}
		if len(proofSizes[i]) != len(tree.declared) {
			return NewVerificationError(InvalidCommitment,
				"tree %d has %d columns, claim declares %d", i, len(proofSizes[i]), len(tree.declared))
		}
		for j, declared := range tree.declared {
			if proofSizes[i][j] != declared {
				return NewVerificationError(InvalidCommitment,
					"tree %d column %d has log size %d, claim declares %d",
					i, j, proofSizes[i][j], declared)
			}
		}
	}
	return nil
}
