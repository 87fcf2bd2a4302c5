package goknot

import "sync"

// sigDigits maps an ASCII byte to its radix-64 digit value, or -1.
var sigDigits [256]int8

func init() {
	for i := range sigDigits {
		sigDigits[i] = -1
	}
	for i := 0; i < len(SigAlphabet); i++ {
		sigDigits[SigAlphabet[i]] = int8(i)
	}
}

// SigDigit returns the radix-64 value of an ASCII byte, or -1 if the byte is
// not part of SigAlphabet.
func SigDigit(c byte) int8 {
	return sigDigits[c]
}

// DigitsPerInt returns the minimum number of radix-64 digits needed to hold
// values up to maxVal.
func DigitsPerInt(maxVal int) int {
	d := 1
	for maxVal >= 64 {
		maxVal >>= 6
		d++
	}
	return d
}

func NewCatalogContext() CatalogContext {
	return &catalogContext{
		open:    make(map[Catalog]struct{}),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// catalogContext tracks the open catalogs so shutdown can wait for the last
// one to detach.
type catalogContext struct {
	mu      sync.Mutex
	open    map[Catalog]struct{}
	wg      sync.WaitGroup
	closing chan struct{}
	done    chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, attached := ctx.open[cat]; !attached {
		ctx.open[cat] = struct{}{}
		ctx.wg.Add(1)
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, attached := ctx.open[cat]; attached {
		delete(ctx.open, cat)
		ctx.wg.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Closing() <-chan struct{} {
	return ctx.closing
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.done
}

// Close asks every attached catalog to close, then releases Done once the
// last one has detached.
func (ctx *catalogContext) Close() {
	close(ctx.closing)
	ctx.mu.Lock()
	for cat := range ctx.open {
		go cat.Close()
	}
	ctx.mu.Unlock()
	go func() {
		ctx.wg.Wait()
		close(ctx.done)
	}()
}
