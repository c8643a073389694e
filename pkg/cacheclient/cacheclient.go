package cacheclient

import (
	"bytes"
	"context"
	"time"

	"github.com/QuangTung97/go-memcache/memcache"
)

// Client ...
type Client struct {
	client *memcache.Client
}

// New ...
func New(addr string, numConns int) (*Client, error) {
	client, err := memcache.New(addr, numConns, memcache.WithRetryDuration(10*time.Second))
	if err != nil {
		return nil, err
	}
	return &Client{
		client: client,
	}, nil
}

// UnsafeFlushAll ...
func (c *Client) UnsafeFlushAll() error {
	p := c.client.Pipeline()
	defer p.Finish()
	return p.FlushAll()()
}

// Close ...
func (c *Client) Close() error {
	return c.client.Close()
}

// LeaseState is the outcome of reading the lease key
type LeaseState int

const (
	// LeaseStateRejected another process is creating the key
	LeaseStateRejected LeaseState = iota + 1

	// LeaseStateGranted the key was missing and this caller may create it
	LeaseStateGranted

	// LeaseStateFound the key exists
	LeaseStateFound
)

type leaseOutput struct {
	State LeaseState
	CAS   uint64
	Data  []byte
}

// leaseGet reads key, on a miss the key is created empty with ttl and only one caller gets LeaseStateGranted
func (c *Client) leaseGet(key string, ttl uint32) (leaseOutput, error) {
	p := c.client.Pipeline()
	defer p.Finish()

	resp, err := p.MGet(key, memcache.MGetOptions{
		N:   ttl,
		CAS: true,
	})()
	if err != nil {
		return leaseOutput{}, err
	}
	if resp.Type != memcache.MGetResponseTypeVA || resp.Flags&memcache.MGetFlagZ != 0 {
		return leaseOutput{State: LeaseStateRejected}, nil
	}
	if resp.Flags&memcache.MGetFlagW != 0 {
		return leaseOutput{State: LeaseStateGranted, CAS: resp.CAS}, nil
	}
	return leaseOutput{State: LeaseStateFound, CAS: resp.CAS, Data: resp.Data}, nil
}

func (c *Client) set(key string, value []byte, cas uint64, ttl uint32) error {
	p := c.client.Pipeline()
	defer p.Finish()

	_, err := p.MSet(key, value, memcache.MSetOptions{
		CAS: cas,
		TTL: ttl,
	})()
	return err
}

func (c *Client) get(key string) ([]byte, bool, error) {
	p := c.client.Pipeline()
	defer p.Finish()

	resp, err := p.MGet(key, memcache.MGetOptions{})()
	if err != nil {
		return nil, false, err
	}
	if resp.Type != memcache.MGetResponseTypeVA {
		return nil, false, nil
	}
	return resp.Data, true, nil
}

func (c *Client) delete(key string) error {
	p := c.client.Pipeline()
	defer p.Finish()

	_, err := p.MDel(key, memcache.MDelOptions{})()
	return err
}

// Lease is an expiring ownership of a key shared by every process using the same memcached
type Lease struct {
	client *Client
	key    string
	owner  []byte
}

// NewLease ...
func NewLease(client *Client, key string, owner string) *Lease {
	return &Lease{
		client: client,
		key:    key,
		owner:  []byte(owner),
	}
}

func ttlSeconds(ttl time.Duration) uint32 {
	seconds := uint32(ttl / time.Second)
	if seconds == 0 {
		return 1
	}
	return seconds
}

// Acquire takes the lease or extends it when already held, returns false if another owner holds it
func (l *Lease) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	seconds := ttlSeconds(ttl)
	out, err := l.client.leaseGet(l.key, seconds)
	if err != nil {
		return false, err
	}

	switch out.State {
	case LeaseStateGranted:
	case LeaseStateFound:
		if !bytes.Equal(out.Data, l.owner) {
			return false, nil
		}
	default:
		return false, nil
	}

	if err := l.client.set(l.key, l.owner, out.CAS, seconds); err != nil {
		return false, err
	}

	// the compare and set may have lost against another owner
	data, found, err := l.client.get(l.key)
	if err != nil {
		return false, err
	}
	return found && bytes.Equal(data, l.owner), nil
}

// Release deletes the key if still owned
func (l *Lease) Release(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, found, err := l.client.get(l.key)
	if err != nil {
		return err
	}
	if !found || !bytes.Equal(data, l.owner) {
		return nil
	}
	return l.client.delete(l.key)
}
