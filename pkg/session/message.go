package session

import "github.com/papercomputeco/shopgpt/pkg/product"

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation. Messages are immutable once
// appended.
type Message struct {
	Role     Role
	Content  string
	Products []product.Product

	// Hash identifies the message's transcript node.
	Hash string
}

func (m Message) clone() Message {
	if m.Products != nil {
		products := make([]product.Product, len(m.Products))
		copy(products, m.Products)
		m.Products = products
	}
	return m
}
