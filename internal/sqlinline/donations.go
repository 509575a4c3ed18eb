package sqlinline

const QSelectDonorByUserID = `--sql 7aff6ec7-4bcb-42ef-a944-28f14ebbd4e7
select exists (
    select 1 from donors where user_id = $1::uuid
);
`

const QInsertDonor = `--sql 3659dc58-fb8b-43d3-b61f-f27411169494
insert into donors (id, user_id, donor_type, total_donated, donation_count, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::numeric, $4::int, now(), now());
`
