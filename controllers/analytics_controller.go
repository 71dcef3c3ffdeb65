package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"blogmetrics/analytics"
	"blogmetrics/middleware"
	"blogmetrics/models"
	"blogmetrics/utils"
)

// AnalyticsController serves the grouped aggregation endpoints. All queries
// are read-only against the blog graph; the clock is injectable so range
// anchoring is testable.
type AnalyticsController struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{db: db, now: time.Now}
}

// blogRoot is the filterable Blog query root with the author/country joins
// every field mapping column relies on.
func (a *AnalyticsController) blogRoot() *gorm.DB {
	return a.db.Model(&models.Blog{}).
		Joins("JOIN users ON users.id = blogs.author_id").
		Joins("JOIN countries ON countries.id = users.country_id")
}

// viewRoot joins views through blog ownership so the same qualified filter
// columns apply.
func (a *AnalyticsController) viewRoot() *gorm.DB {
	return a.db.Model(&models.View{}).
		Joins("JOIN blogs ON blogs.id = views.blog_id").
		Joins("JOIN users ON users.id = blogs.author_id").
		Joins("JOIN countries ON countries.id = users.country_id")
}

// groupColumns returns the key and label columns for a grouping object type.
func groupColumns(objectType string) (groupCol, labelCol string) {
	if objectType == "user" {
		return "users.id", "users.username"
	}
	return "countries.id", "countries.name"
}

func compileRequestFilters(ctx *gin.Context, reserved []string) (*analytics.Filter, bool) {
	filter, err := analytics.CompileFilters(ctx.Request.URL.Query(), reserved, analytics.BlogFieldMapping())
	if err != nil {
		var unknown *analytics.UnknownFieldError
		if errors.As(err, &unknown) {
			utils.ClientError(ctx, http.StatusBadRequest, unknown.Error())
		} else {
			utils.ClientError(ctx, http.StatusBadRequest, "invalid filter parameters")
		}
		return nil, false
	}
	return filter, true
}

func validRange(token string) bool {
	return token == analytics.RangeMonth || token == analytics.RangeWeek || token == analytics.RangeYear
}

// BlogViews answers GET /analytics/blog-views: blog and view counts grouped
// by country or user, merged by group key with zero-fill.
func (a *AnalyticsController) BlogViews(ctx *gin.Context) {
	objectType := ctx.DefaultQuery("object_type", "country")
	if objectType != "country" && objectType != "user" {
		utils.ClientError(ctx, http.StatusBadRequest, "object_type must be country or user")
		return
	}
	rangeToken := ctx.DefaultQuery("range", analytics.RangeMonth)
	if !validRange(rangeToken) {
		utils.ClientError(ctx, http.StatusBadRequest, "range must be month, week, or year")
		return
	}
	filter, ok := compileRequestFilters(ctx, []string{"object_type", "range"})
	if !ok {
		return
	}

	start := analytics.RangeStart(rangeToken, a.now())
	groupCol, labelCol := groupColumns(objectType)
	sel := groupCol + " AS group_id, " + labelCol + " AS label, COUNT(*) AS total"
	groupBy := groupCol + ", " + labelCol

	var blogCounts []analytics.GroupCount
	if err := filter.Apply(a.blogRoot()).
		Select(sel).
		Group(groupBy).
		Scan(&blogCounts).Error; err != nil {
		utils.ServerError(ctx, "failed to aggregate blogs")
		return
	}

	var viewCounts []analytics.GroupCount
	if err := filter.Apply(a.viewRoot()).
		Where("views.timestamp >= ?", start).
		Select(sel).
		Group(groupBy).
		Scan(&viewCounts).Error; err != nil {
		utils.ServerError(ctx, "failed to aggregate views")
		return
	}

	result := analytics.MergeGroupCounts(blogCounts, viewCounts)
	ctx.Set(middleware.CtxResultCount, len(result))
	ctx.Set(middleware.CtxDBQueries, 2)
	ctx.JSON(http.StatusOK, result)
}

// Top answers GET /analytics/top: the ten most viewed users, countries, or
// blogs within the range. For user/country mode the blog count per group is
// computed independently of the ranking and joined by key.
func (a *AnalyticsController) Top(ctx *gin.Context) {
	topType := ctx.DefaultQuery("top", "user")
	if topType != "user" && topType != "country" && topType != "blog" {
		utils.ClientError(ctx, http.StatusBadRequest, "top must be user, country, or blog")
		return
	}
	rangeToken := ctx.DefaultQuery("range", analytics.RangeMonth)
	if !validRange(rangeToken) {
		utils.ClientError(ctx, http.StatusBadRequest, "range must be month, week, or year")
		return
	}
	filter, ok := compileRequestFilters(ctx, []string{"top", "range"})
	if !ok {
		return
	}

	start := analytics.RangeStart(rangeToken, a.now())

	if topType == "blog" {
		a.topBlogs(ctx, filter, start)
		return
	}

	groupCol, labelCol := groupColumns(topType)

	// Blog counts per group, decoupled from the view ranking.
	var blogCounts []analytics.GroupCount
	if err := filter.Apply(a.blogRoot()).
		Select(groupCol + " AS group_id, COUNT(*) AS total").
		Group(groupCol).
		Find(&blogCounts).Error; err != nil {
		utils.ServerError(ctx, "failed to aggregate blogs")
		return
	}
	countByGroup := make(map[uint]int64, len(blogCounts))
	for _, b := range blogCounts {
		countByGroup[b.GroupID] = b.Total
	}

	var top []analytics.GroupCount
	if err := filter.Apply(a.viewRoot()).
		Where("views.timestamp >= ?", start).
		Select(groupCol + " AS group_id, " + labelCol + " AS label, COUNT(*) AS total").
		Group(groupCol + ", " + labelCol).
		Order("total DESC").
		Limit(10).
		Find(&top).Error; err != nil {
		utils.ServerError(ctx, "failed to rank views")
		return
	}

	result := analytics.JoinTopBlogCounts(top, countByGroup)
	ctx.Set(middleware.CtxResultCount, len(result))
	ctx.Set(middleware.CtxDBQueries, 2)
	ctx.JSON(http.StatusOK, result)
}

func (a *AnalyticsController) topBlogs(ctx *gin.Context, filter *analytics.Filter, start time.Time) {
	var rows []struct {
		Label  string
		Author string
		Total  int64
	}
	if err := filter.Apply(a.viewRoot()).
		Where("views.timestamp >= ?", start).
		Select("blogs.title AS label, users.username AS author, COUNT(*) AS total").
		Group("blogs.id, blogs.title, users.username").
		Order("total DESC").
		Limit(10).
		Find(&rows).Error; err != nil {
		utils.ServerError(ctx, "failed to rank blogs")
		return
	}

	result := make([]analytics.Point, 0, len(rows))
	for _, r := range rows {
		result = append(result, analytics.Point{X: r.Label, Y: r.Total, Z: r.Author})
	}
	ctx.Set(middleware.CtxResultCount, len(result))
	ctx.Set(middleware.CtxDBQueries, 1)
	ctx.JSON(http.StatusOK, result)
}

// Performance answers GET /analytics/performance: blog creations and views
// bucketed into calendar periods over a fixed comparison window, with a
// percent-change column against the previous emitted period.
func (a *AnalyticsController) Performance(ctx *gin.Context) {
	compare := ctx.DefaultQuery("compare", analytics.RangeMonth)
	if compare != analytics.RangeDay && compare != analytics.RangeWeek &&
		compare != analytics.RangeMonth && compare != analytics.RangeYear {
		utils.ClientError(ctx, http.StatusBadRequest, "compare must be month, week, day, or year")
		return
	}
	userParam := ctx.Query("user")
	filter, ok := compileRequestFilters(ctx, []string{"compare", "user"})
	if !ok {
		return
	}

	start := analytics.CompareWindowStart(compare, a.now())

	blogQ := filter.Apply(a.blogRoot()).Where("blogs.created_at >= ?", start)
	if userParam != "" {
		blogQ = blogQ.Where("users.username = ?", userParam)
	}
	var blogTimes []time.Time
	if err := blogQ.Pluck("blogs.created_at", &blogTimes).Error; err != nil {
		utils.ServerError(ctx, "failed to load blog activity")
		return
	}

	viewQ := filter.Apply(a.viewRoot()).
		Where("blogs.created_at >= ?", start).
		Where("views.timestamp >= ?", start)
	if userParam != "" {
		viewQ = viewQ.Where("users.username = ?", userParam)
	}
	var viewTimes []time.Time
	if err := viewQ.Pluck("views.timestamp", &viewTimes).Error; err != nil {
		utils.ServerError(ctx, "failed to load view activity")
		return
	}

	result := analytics.BuildPeriodSeries(
		analytics.CountBuckets(blogTimes, compare),
		analytics.CountBuckets(viewTimes, compare),
	)
	ctx.Set(middleware.CtxResultCount, len(result))
	ctx.Set(middleware.CtxDBQueries, 2)
	ctx.JSON(http.StatusOK, result)
}
