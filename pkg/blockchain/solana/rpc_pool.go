// pkg/blockchain/solana/rpc_pool.go
package solana

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// RPCPool rotates requests across a set of RPC endpoints. Each rpc.Client is
// internally pooled and safe for concurrent use; the mutex only guards the
// rotation index, never a network call.
type RPCPool struct {
	clients []*rpc.Client
	mutex   sync.Mutex
	index   int
}

func NewRPCPool(rpcList []string) *RPCPool {
	clients := make([]*rpc.Client, 0, len(rpcList))
	for _, url := range rpcList {
		clients = append(clients, rpc.New(url))
	}
	return &RPCPool{clients: clients}
}

// GetClient returns the next client in round-robin order.
func (p *RPCPool) GetClient() *rpc.Client {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	client := p.clients[p.index]
	p.index = (p.index + 1) % len(p.clients)
	return client
}

// CheckClientHealth pings a client with a short blockhash request.
func (p *RPCPool) CheckClientHealth(client *rpc.Client) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	return err == nil
}

// HealthCheck pings every endpoint and fails only when none respond. A
// partially degraded pool stays usable; round-robin will hit the dead
// endpoints too, and callers retry through the submission layer.
func (p *RPCPool) HealthCheck() error {
	for _, client := range p.clients {
		if p.CheckClientHealth(client) {
			return nil
		}
	}
	return errors.New("no healthy RPC endpoint in pool")
}
