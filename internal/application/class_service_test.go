package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proactivefit/proactive-server/internal/domain/entity"
	"github.com/proactivefit/proactive-server/internal/domain/repository"
)

func classServiceFixture() (*fakeUserRepo, *fakeClassRepo, *ClassService) {
	users := newFakeUserRepo(
		&entity.User{ID: "u1", Email: "coach@x.com", Role: entity.RoleInstructor},
		&entity.User{ID: "u2", Email: "guru@x.com", Role: entity.RoleInstructor},
		&entity.User{ID: "u3", Email: "a@x.com", Role: entity.RoleStudent, Booked: []string{"c1"}, Enrolled: []string{"c2"}},
	)
	classes := newFakeClassRepo(
		&entity.Class{ID: "c1", Name: "Sunrise Yoga", InstructorEmail: "coach@x.com", Status: entity.ClassApproved, EnrolledCount: 10},
		&entity.Class{ID: "c2", Name: "HIIT Express", InstructorEmail: "guru@x.com", Status: entity.ClassApproved, EnrolledCount: 5},
		&entity.Class{ID: "c3", Name: "New Thing", InstructorEmail: "coach@x.com", Status: entity.ClassPending},
	)
	// nil redis and ES clients: caching, indexing and search degrade to no-ops.
	return users, classes, NewClassService(classes, users, testLogger(), nil, nil, "")
}

func TestSubmitCreatesPendingClass(t *testing.T) {
	_, classes, svc := classServiceFixture()

	c, err := svc.Submit(context.Background(), "coach@x.com", SubmitInput{Name: "Mobility 101", Price: 9.99, Seats: 15})
	require.NoError(t, err)
	assert.Equal(t, entity.ClassPending, c.Status)
	assert.Equal(t, "coach@x.com", c.InstructorEmail)
	assert.NotEmpty(t, c.ID)
	assert.Contains(t, classes.classes, c.ID)

	_, err = svc.Submit(context.Background(), "", SubmitInput{Name: "X"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), "coach@x.com", SubmitInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestModerateClass(t *testing.T) {
	_, classes, svc := classServiceFixture()

	require.NoError(t, svc.Moderate(context.Background(), "c3", entity.ClassApproved, "looks good"))
	assert.Equal(t, entity.ClassApproved, classes.classes["c3"].Status)
	assert.Equal(t, "looks good", classes.classes["c3"].Feedback)

	require.NoError(t, svc.Moderate(context.Background(), "c3", entity.ClassDenied, "needs a description"))
	assert.Equal(t, entity.ClassDenied, classes.classes["c3"].Status)

	err := svc.Moderate(context.Background(), "c3", "archived", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.Moderate(context.Background(), "missing", entity.ClassApproved, "")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestListMineResolvesSets(t *testing.T) {
	_, _, svc := classServiceFixture()

	booked, err := svc.ListMine(context.Background(), "a@x.com", "booked")
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "c1", booked[0].ID)

	enrolled, err := svc.ListMine(context.Background(), "a@x.com", "enrolled")
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "c2", enrolled[0].ID)

	_, err = svc.ListMine(context.Background(), "a@x.com", "wishlist")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListMine(context.Background(), "ghost@x.com", "booked")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListTaught(t *testing.T) {
	_, _, svc := classServiceFixture()

	taught, err := svc.ListTaught(context.Background(), "coach@x.com")
	require.NoError(t, err)
	assert.Len(t, taught, 2)
	for _, c := range taught {
		assert.Equal(t, "coach@x.com", c.InstructorEmail)
	}
}

func TestInstructors(t *testing.T) {
	_, _, svc := classServiceFixture()

	got, err := svc.Instructors(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, u := range got {
		assert.Equal(t, entity.RoleInstructor, u.Role)
	}
}

func TestPopularInstructorsRankedAndDeduped(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{Email: "coach@x.com", Role: entity.RoleInstructor},
		&entity.User{Email: "guru@x.com", Role: entity.RoleInstructor},
	)
	classes := &orderedClassRepo{classes: []*entity.Class{
		{ID: "c1", InstructorEmail: "coach@x.com", EnrolledCount: 50},
		{ID: "c2", InstructorEmail: "guru@x.com", EnrolledCount: 30},
		{ID: "c3", InstructorEmail: "coach@x.com", EnrolledCount: 20},
	}}
	svc := NewClassService(classes, users, testLogger(), nil, nil, "")

	got, err := svc.PopularInstructors(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "coach@x.com", got[0].Email)
	assert.Equal(t, "guru@x.com", got[1].Email)
}

// orderedClassRepo returns classes in a fixed order so ranking is testable;
// the map-backed fake iterates in random order.
type orderedClassRepo struct {
	fakeClassRepo
	classes []*entity.Class
}

func (r *orderedClassRepo) List(_ context.Context, _ repository.ClassFilter) ([]*entity.Class, error) {
	return r.classes, nil
}
