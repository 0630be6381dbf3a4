package expa

const peopleIndexQuery = `
  query PeopleIndexQuery($page: Int, $perPage: Int, $filters: PeopleFilter, $q: String) {
    allPeople(page: $page, per_page: $perPage, filters: $filters, q: $q) {
      data {
        id
        has_opportunity_applications
        full_name
        created_at
        updated_at
        last_active_at
        status
        home_lc { id name }
        home_mc { id name }
        person_profile { selected_programmes }
        lc_alignment { id }
      }
    }
  }
`

const applicationIndexQuery = `
  query ApplicationIndexByCS(
    $page: Int = 1,
    $per_page: Int = 100,
    $q: String = "",
    $filters: ApplicationFilter
  ) {
    allOpportunityApplication(page: $page, per_page: $per_page, q: $q, filters: $filters) {
      data {
        id
        status
        current_status
        created_at
        updated_at
        date_matched
        date_approved
        person {
          id
          full_name
          email
          home_lc { id name }
          home_mc { id name }
        }
        opportunity {
          id
          title
          programme { id short_name_display }
        }
      }
    }
  }
`
