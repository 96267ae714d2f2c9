// Package merkle is a content-addressed hash chain of conversation messages.
// Every appended message becomes a Node whose parent is the message before
// it, so a node hash commits to the whole conversation up to that point.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Bucket is the hashable content of a message node.
type Bucket struct {
	Type    string   `json:"type"`
	Role    string   `json:"role"`
	Content string   `json:"content"`
	ASINs   []string `json:"asins,omitempty"`
}

// Node represents a single content-addressed node in the chain.
type Node struct {
	// Hash is the content-addressed identifier (SHA-256, hex-encoded)
	Hash string `json:"hash"`

	// ParentHash links to the previous node hash.
	// This will be nil for root nodes.
	ParentHash *string `json:"parent_hash"`

	Bucket Bucket `json:"bucket"`
}

type input struct {
	Parent string `json:"parent,omitempty"`
	Bucket Bucket `json:"bucket"`
}

// NewNode creates a new node with the computed hash for the provided bucket.
func NewNode(bucket Bucket, parent *Node) *Node {
	n := &Node{
		Bucket: bucket,
	}

	if parent != nil {
		hash := parent.Hash
		n.ParentHash = &hash
	}

	n.Hash = n.computeHash()
	return n
}

// ShortHash returns the first 12 characters of the hash.
func (n *Node) ShortHash() string {
	if len(n.Hash) <= 12 {
		return n.Hash
	}
	return n.Hash[:12]
}

func (n *Node) computeHash() string {
	i := &input{
		Bucket: n.Bucket,
	}

	if n.ParentHash != nil {
		i.Parent = *n.ParentHash
	}

	// Bucket only holds strings, so marshaling cannot fail.
	data, err := json.Marshal(i)
	if err != nil {
		panic("failed to marshal hash input: " + err.Error())
	}

	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
