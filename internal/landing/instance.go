package landing

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"example.com/storefront/internal/checkout"
)

// MountOptions are the collaborators of a mounted page.
type MountOptions struct {
	Products checkout.ProductSource
	Images   ImageResolver
	Logger   *slog.Logger
	Now      func() time.Time
	// Width is the initial viewport width.
	Width int
	// Tick overrides the countdown and carousel intervals, for tests.
	Tick time.Duration
}

// Instance is a mounted page: the live sub-engines of every section plus
// the scope their goroutines run under. Close cancels the scope and waits
// for all of them.
type Instance struct {
	page    *Page
	product *ProductPage
	home    *HomePage
	opts    MountOptions

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	loads  sync.WaitGroup

	checkouts  map[string]*checkout.Engine
	countdowns map[string]*Countdown
	carousels  map[string]*Carousel
	paged      []*Carousel
	accordions map[string]*Accordion

	mu    sync.RWMutex
	width int
}

func newInstance(parent context.Context, opts MountOptions) *Instance {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Instance{
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		checkouts:  make(map[string]*checkout.Engine),
		countdowns: make(map[string]*Countdown),
		carousels:  make(map[string]*Carousel),
		accordions: make(map[string]*Accordion),
		width:      opts.Width,
	}
}

// Mount starts the sub-engines of every section on page. Product loads,
// countdown ticks and carousel auto-advance all run until Close or until
// parent is cancelled.
func Mount(parent context.Context, page *Page, opts MountOptions) *Instance {
	inst := newInstance(parent, opts)
	inst.page = page
	for _, s := range page.Sections {
		switch st := s.Settings.(type) {
		case *CheckoutFormSettings:
			engine := checkout.NewEngine(st.EngineOptions(page.Slug), inst.opts.Logger)
			inst.checkouts[s.ID] = engine
			inst.load(s.ID, engine, st.IDs())
		case *CountdownSettings:
			target, ok := ParseEndDate(st.EndDate.String())
			if !ok {
				continue
			}
			c := NewCountdown(target, opts.Now)
			inst.countdowns[s.ID] = c
			inst.wg.Go(func() { c.Run(inst.ctx, inst.interval(CountdownInterval)) })
		case *HeroProductSettings:
			inst.startCarousel(s.ID, NewWrapCarousel(len(nonEmpty(st.Images))), HeroInterval)
		case *TestimonialsSettings:
			if n := len(nonEmpty(st.Images)); n > 0 {
				c := NewPagedCarousel(n, VisibleCount(opts.Width))
				inst.paged = append(inst.paged, c)
				inst.startCarousel(s.ID, c, ScreenshotInterval)
			}
		case *FAQSettings:
			n := 0
			for _, qa := range st.FAQs {
				if qa.Question.String() != "" {
					n++
				}
			}
			inst.accordions[s.ID] = NewAccordion(n)
		}
	}
	return inst
}

// MountProduct mounts a single-product page: a hero carousel and one
// single-select checkout with the product already loaded.
func MountProduct(parent context.Context, p *ProductPage, opts MountOptions) *Instance {
	inst := newInstance(parent, opts)
	inst.product = p
	engine := checkout.NewEngine(p.CheckoutOptions(), inst.opts.Logger)
	engine.SetProducts([]checkout.Product{p.Product})
	inst.checkouts[ProductCheckoutID] = engine
	inst.startCarousel(ProductHeroID, NewWrapCarousel(len(nonEmpty(p.Product.Images))), HeroInterval)
	return inst
}

// MountHome mounts the home page: the banners auto-rotate while there is
// more than one.
func MountHome(parent context.Context, h *HomePage, opts MountOptions) *Instance {
	inst := newInstance(parent, opts)
	inst.home = h
	inst.startCarousel(HomeBannersID, NewWrapCarousel(len(h.Banners)), BannerInterval)
	return inst
}

func (inst *Instance) load(sectionID string, engine *checkout.Engine, ids []string) {
	if len(ids) == 0 || inst.opts.Products == nil {
		return
	}
	inst.loads.Add(1)
	inst.wg.Go(func() {
		defer inst.loads.Done()
		if err := engine.Load(inst.ctx, inst.opts.Products, ids); err != nil {
			if inst.ctx.Err() != nil {
				return
			}
			inst.opts.Logger.Error("load checkout products failed", "section_id", sectionID, "product_ids", ids, "error", err)
		}
	})
}

func (inst *Instance) startCarousel(id string, c *Carousel, every time.Duration) {
	inst.carousels[id] = c
	inst.wg.Go(func() { c.Run(inst.ctx, inst.interval(every)) })
}

func (inst *Instance) interval(d time.Duration) time.Duration {
	if inst.opts.Tick > 0 {
		return inst.opts.Tick
	}
	return d
}

// WaitLoaded blocks until the initial product loads finish or ctx is done.
func (inst *Instance) WaitLoaded(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		inst.loads.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Checkout returns the engine of a checkout section.
func (inst *Instance) Checkout(sectionID string) *checkout.Engine { return inst.checkouts[sectionID] }

// Countdown returns the countdown of a countdown section.
func (inst *Instance) Countdown(sectionID string) *Countdown { return inst.countdowns[sectionID] }

// Carousel returns the carousel of a hero or screenshot section.
func (inst *Instance) Carousel(sectionID string) *Carousel { return inst.carousels[sectionID] }

// Accordion returns the accordion of a FAQ section.
func (inst *Instance) Accordion(sectionID string) *Accordion { return inst.accordions[sectionID] }

// Slug is the page or product slug the instance was mounted for.
func (inst *Instance) Slug() string {
	switch {
	case inst.product != nil:
		return inst.product.Slug
	case inst.home != nil:
		return HomeSlug
	}
	return inst.page.Slug
}

// SetViewport updates the viewport width; paged carousels recompute how
// many items they show.
func (inst *Instance) SetViewport(width int) int {
	inst.mu.Lock()
	inst.width = width
	inst.mu.Unlock()
	visible := VisibleCount(width)
	for _, c := range inst.paged {
		c.SetVisible(visible)
	}
	return visible
}

// Width returns the last reported viewport width.
func (inst *Instance) Width() int {
	inst.mu.RLock()
	defer inst.mu.RUnlock()
	return inst.width
}

// Render renders the mounted page with its live state. The result is a
// PageView, a ProductPageView for product pages or a HomeView.
func (inst *Instance) Render() any {
	rc := RenderContext{
		Images: inst.opts.Images,
		Now:    inst.opts.Now,
		Slug:   inst.Slug(),
		Width:  inst.Width(),
		State:  inst,
		Logger: inst.opts.Logger,
	}
	switch {
	case inst.product != nil:
		return inst.product.Render(rc)
	case inst.home != nil:
		return inst.home.Render(rc)
	}
	return RenderPage(inst.page, rc)
}

// Context is the scope of the instance; it is cancelled by Close.
func (inst *Instance) Context() context.Context { return inst.ctx }

// Close unmounts the page and waits for every section goroutine to exit.
func (inst *Instance) Close() {
	inst.cancel()
	inst.wg.Wait()
}

func nonEmpty(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}
